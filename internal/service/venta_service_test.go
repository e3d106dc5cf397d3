package service

import (
	"context"
	"testing"

	"github.com/MrCorrectoMX/POSQuimo/internal/apperr"
	"github.com/MrCorrectoMX/POSQuimo/internal/dto"
	"github.com/MrCorrectoMX/POSQuimo/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ventaSvc(e *env) VentaService {
	return NewVentaService(e.ventas, e.productos, e.reventa, e.materias, e.presentaciones, e.fondo, precioSvc(e), nil, 0)
}

func addReventa(t *testing.T, e *env, nombre, precio, stock string) *model.ProductoReventa {
	t.Helper()
	p := &model.ProductoReventa{Nombre: nombre, PrecioVenta: dec(precio), Stock: dec(stock), Activo: true}
	require.NoError(t, e.reventa.Create(context.Background(), p))
	return p
}

func TestProcesarVenta_TicketMultilinea(t *testing.T) {
	e := newEnv()
	p := e.addProducto(t, "Limpiador Multiusos", "10", "50")
	r := addReventa(t, e, "Fibra Verde", "30", "5")

	resp, err := ventaSvc(e).ProcesarVenta(context.Background(), dto.ProcesarVentaRequest{
		Fecha: "2026-08-26",
		Lineas: []dto.LineaVentaRequest{
			{TipoItem: model.TipoItemProducto, ItemID: p.ID.String(), Cantidad: dec("2")},
			{TipoItem: model.TipoItemReventa, ItemID: r.ID.String(), Cantidad: dec("3")},
		},
	})

	require.NoError(t, err)
	// 2*50 + 3*30
	assertDec(t, "190.00", resp.Total)
	require.Len(t, resp.Lineas, 2)
	assertDec(t, "100.00", resp.Lineas[0].Total)
	assertDec(t, "90.00", resp.Lineas[1].Total)

	assertDec(t, "8", e.productos.items[p.ID].Stock)
	assertDec(t, "2", e.reventa.items[r.ID].Stock)
	assert.Len(t, e.ventas.ventas, 2)

	// The whole ticket lands as one ledger entry.
	require.Len(t, e.fondo.movs, 1)
	mov := e.fondo.movs[0]
	assert.Equal(t, model.MovimientoIngreso, mov.Tipo)
	assert.Equal(t, "Venta POS", mov.Concepto)
	assertDec(t, "190.00", mov.Monto)
	assertDec(t, "190.00", mov.Saldo)
	assert.Equal(t, mov.ID, resp.MovimientoFondoID)
}

func TestProcesarVenta_SaldoEncadenado(t *testing.T) {
	e := newEnv()
	p := e.addProducto(t, "Limpiador Multiusos", "10", "50")
	fondoSvc := NewFondoService(e.fondo, 0)
	_, err := fondoSvc.RegistrarMovimiento(context.Background(), dto.CrearMovimientoFondoRequest{
		Tipo: model.MovimientoIngreso, Concepto: "Fondo inicial", Monto: dec("100"),
	})
	require.NoError(t, err)

	_, err = ventaSvc(e).ProcesarVenta(context.Background(), dto.ProcesarVentaRequest{
		Lineas: []dto.LineaVentaRequest{
			{TipoItem: model.TipoItemProducto, ItemID: p.ID.String(), Cantidad: dec("2")},
		},
	})

	require.NoError(t, err)
	require.Len(t, e.fondo.movs, 2)
	assertDec(t, "200.00", e.fondo.movs[1].Saldo)
}

func TestProcesarVenta_Presentacion(t *testing.T) {
	e := newEnv()
	p := e.addProducto(t, "Limpiador Multiusos", "10", "10.40")
	pres := addPresentacion(t, e, p.ID, "Medio litro", "0.5", "3", nil)
	presID := pres.ID.String()

	resp, err := ventaSvc(e).ProcesarVenta(context.Background(), dto.ProcesarVentaRequest{
		Lineas: []dto.LineaVentaRequest{
			{TipoItem: model.TipoItemProducto, ItemID: p.ID.String(), PresentacionID: &presID, Cantidad: dec("4")},
		},
	})

	require.NoError(t, err)
	require.Len(t, resp.Lineas, 1)
	assert.Equal(t, "Limpiador Multiusos Medio litro", resp.Lineas[0].NombreItem)
	// presentation price 10.40*0.5+3 = 8.20, times 4 bottles
	assertDec(t, "8.20", resp.Lineas[0].PrecioUnitario)
	assertDec(t, "32.80", resp.Total)
	// bulk stock drops by cantidad*factor
	assertDec(t, "8", e.productos.items[p.ID].Stock)
}

func TestProcesarVenta_PrecioOverride(t *testing.T) {
	e := newEnv()
	p := e.addProducto(t, "Limpiador Multiusos", "10", "50")

	resp, err := ventaSvc(e).ProcesarVenta(context.Background(), dto.ProcesarVentaRequest{
		Lineas: []dto.LineaVentaRequest{
			{TipoItem: model.TipoItemProducto, ItemID: p.ID.String(), Cantidad: dec("2"), PrecioUnitario: decPtr("45")},
		},
	})

	require.NoError(t, err)
	assertDec(t, "45", resp.Lineas[0].PrecioUnitario)
	assertDec(t, "90.00", resp.Total)
}

func TestProcesarVenta_MateriaPrimaDirecta(t *testing.T) {
	e := newEnv()
	mp := e.addMateria(t, "Sosa Caustica", "12.5", "20")

	resp, err := ventaSvc(e).ProcesarVenta(context.Background(), dto.ProcesarVentaRequest{
		Lineas: []dto.LineaVentaRequest{
			{TipoItem: model.TipoItemMateriaPrima, ItemID: mp.ID.String(), Cantidad: dec("2")},
		},
	})

	require.NoError(t, err)
	assertDec(t, "25.00", resp.Total)
	assertDec(t, "18", e.materias.items[mp.ID].Stock)
}

func TestProcesarVenta_MateriaPrimaSinCosto(t *testing.T) {
	e := newEnv()
	mp := e.addMateria(t, "Sosa Caustica", "", "20")

	_, err := ventaSvc(e).ProcesarVenta(context.Background(), dto.ProcesarVentaRequest{
		Lineas: []dto.LineaVentaRequest{
			{TipoItem: model.TipoItemMateriaPrima, ItemID: mp.ID.String(), Cantidad: dec("2")},
		},
	})

	assert.Equal(t, apperr.KindCostoIncompleto, apperr.KindOf(err))
}

func TestProcesarVenta_RecolectaTodosLosFaltantes(t *testing.T) {
	e := newEnv()
	p := e.addProducto(t, "Limpiador Multiusos", "1", "50")
	r := addReventa(t, e, "Fibra Verde", "30", "1")

	_, err := ventaSvc(e).ProcesarVenta(context.Background(), dto.ProcesarVentaRequest{
		Lineas: []dto.LineaVentaRequest{
			{TipoItem: model.TipoItemProducto, ItemID: p.ID.String(), Cantidad: dec("3")},
			{TipoItem: model.TipoItemReventa, ItemID: r.ID.String(), Cantidad: dec("2")},
		},
	})

	require.Equal(t, apperr.KindStockInsuficiente, apperr.KindOf(err))
	faltantes := apperr.Faltantes(err)
	require.Len(t, faltantes, 2)
	assert.Equal(t, "Limpiador Multiusos", faltantes[0].Item)
	assert.Equal(t, "Fibra Verde", faltantes[1].Item)

	// No partial ticket: stocks intact, no sale rows, no ledger entry.
	assertDec(t, "1", e.productos.items[p.ID].Stock)
	assertDec(t, "1", e.reventa.items[r.ID].Stock)
	assert.Empty(t, e.ventas.ventas)
	assert.Empty(t, e.fondo.movs)
}

func TestProcesarVenta_LineasRepetidasSumanConsumo(t *testing.T) {
	e := newEnv()
	p := e.addProducto(t, "Limpiador Multiusos", "10", "10")

	// Same product twice at different prices: each line fits on its own,
	// together they exceed stock. The ticket must be rejected whole.
	_, err := ventaSvc(e).ProcesarVenta(context.Background(), dto.ProcesarVentaRequest{
		Lineas: []dto.LineaVentaRequest{
			{TipoItem: model.TipoItemProducto, ItemID: p.ID.String(), Cantidad: dec("6")},
			{TipoItem: model.TipoItemProducto, ItemID: p.ID.String(), Cantidad: dec("6"), PrecioUnitario: decPtr("8")},
		},
	})

	require.Equal(t, apperr.KindStockInsuficiente, apperr.KindOf(err))
	faltantes := apperr.Faltantes(err)
	require.Len(t, faltantes, 1)
	assert.Equal(t, "Limpiador Multiusos", faltantes[0].Item)
	assertDec(t, "12", faltantes[0].Requerido)
	assertDec(t, "10", faltantes[0].Disponible)

	assertDec(t, "10", e.productos.items[p.ID].Stock)
	assert.Empty(t, e.ventas.ventas)
	assert.Empty(t, e.fondo.movs)
}

func TestProcesarVenta_LineasRepetidasQueCaben(t *testing.T) {
	e := newEnv()
	p := e.addProducto(t, "Limpiador Multiusos", "10", "10")

	resp, err := ventaSvc(e).ProcesarVenta(context.Background(), dto.ProcesarVentaRequest{
		Lineas: []dto.LineaVentaRequest{
			{TipoItem: model.TipoItemProducto, ItemID: p.ID.String(), Cantidad: dec("6")},
			{TipoItem: model.TipoItemProducto, ItemID: p.ID.String(), Cantidad: dec("4"), PrecioUnitario: decPtr("8")},
		},
	})

	require.NoError(t, err)
	// 6*10 + 4*8
	assertDec(t, "92.00", resp.Total)
	assertDec(t, "0", e.productos.items[p.ID].Stock)
	assert.Len(t, e.ventas.ventas, 2)
}

func TestProcesarVenta_PresentacionYGranelCompartenStock(t *testing.T) {
	e := newEnv()
	p := e.addProducto(t, "Limpiador Multiusos", "5", "10")
	pres := addPresentacion(t, e, p.ID, "Medio litro", "0.5", "3", nil)
	presID := pres.ID.String()

	// 4 bulk plus 4 bottles of 0.5 L draw 6 from a stock of 5.
	_, err := ventaSvc(e).ProcesarVenta(context.Background(), dto.ProcesarVentaRequest{
		Lineas: []dto.LineaVentaRequest{
			{TipoItem: model.TipoItemProducto, ItemID: p.ID.String(), Cantidad: dec("4")},
			{TipoItem: model.TipoItemProducto, ItemID: p.ID.String(), PresentacionID: &presID, Cantidad: dec("4")},
		},
	})

	require.Equal(t, apperr.KindStockInsuficiente, apperr.KindOf(err))
	faltantes := apperr.Faltantes(err)
	require.Len(t, faltantes, 1)
	assertDec(t, "6", faltantes[0].Requerido)
	assertDec(t, "5", faltantes[0].Disponible)
	assertDec(t, "5", e.productos.items[p.ID].Stock)
}

func TestProcesarVenta_TipoItemDesconocido(t *testing.T) {
	e := newEnv()
	p := e.addProducto(t, "Limpiador Multiusos", "10", "50")

	_, err := ventaSvc(e).ProcesarVenta(context.Background(), dto.ProcesarVentaRequest{
		Lineas: []dto.LineaVentaRequest{
			{TipoItem: "servicio", ItemID: p.ID.String(), Cantidad: dec("1")},
		},
	})

	assert.Equal(t, apperr.KindCantidadInvalida, apperr.KindOf(err))
}

func TestProcesarVenta_CantidadInvalida(t *testing.T) {
	e := newEnv()
	p := e.addProducto(t, "Limpiador Multiusos", "10", "50")

	_, err := ventaSvc(e).ProcesarVenta(context.Background(), dto.ProcesarVentaRequest{
		Lineas: []dto.LineaVentaRequest{
			{TipoItem: model.TipoItemProducto, ItemID: p.ID.String(), Cantidad: dec("-1")},
		},
	})

	assert.Equal(t, apperr.KindCantidadInvalida, apperr.KindOf(err))
}

func TestCorteSemanal(t *testing.T) {
	e := newEnv()
	p := e.addProducto(t, "Limpiador Multiusos", "100", "50")
	svc := ventaSvc(e)

	for i := 0; i < 3; i++ {
		_, err := svc.ProcesarVenta(context.Background(), dto.ProcesarVentaRequest{
			Fecha: "2026-08-26",
			Lineas: []dto.LineaVentaRequest{
				{TipoItem: model.TipoItemProducto, ItemID: p.ID.String(), Cantidad: dec("1")},
			},
		})
		require.NoError(t, err)
	}

	resp, err := svc.CorteSemanal(context.Background(), dto.CorteSemanalRequest{
		SemanaInicio: "2026-08-24",
		SemanaFin:    "2026-08-30",
	})

	require.NoError(t, err)
	assert.EqualValues(t, 3, resp.VentasArchivadas)
	assertDec(t, "150.00", resp.TotalArchivado)
	assert.False(t, resp.ReporteEncolado)

	// Active table is empty; archived rows carry the week window.
	assert.Empty(t, e.ventas.ventas)
	require.Len(t, e.ventas.archivadas, 3)
	assert.Equal(t, "2026-08-24", e.ventas.archivadas[0].SemanaInicio.Format("2006-01-02"))
	assert.Equal(t, "2026-08-30", e.ventas.archivadas[0].SemanaFin.Format("2006-01-02"))
}

func TestCorteSemanal_RangoInvalido(t *testing.T) {
	e := newEnv()

	_, err := ventaSvc(e).CorteSemanal(context.Background(), dto.CorteSemanalRequest{
		SemanaInicio: "2026-08-30",
		SemanaFin:    "2026-08-24",
	})

	assert.Equal(t, apperr.KindCantidadInvalida, apperr.KindOf(err))
}
