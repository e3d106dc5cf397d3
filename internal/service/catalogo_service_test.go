package service

import (
	"context"
	"testing"

	"github.com/MrCorrectoMX/POSQuimo/internal/apperr"
	"github.com/MrCorrectoMX/POSQuimo/internal/dto"
	"github.com/MrCorrectoMX/POSQuimo/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogoSvc(e *env) CatalogoService {
	costeo := NewCosteoService(e.productos, e.formulas, dec("1.30"))
	return NewCatalogoService(e.productos, e.materias, e.reventa, e.formulas, e.presentaciones, e.clientes, costeo)
}

func TestReemplazarFormula(t *testing.T) {
	e := newEnv()
	x := e.addMateria(t, "Sosa Caustica", "10", "100")
	y := e.addMateria(t, "Aceite de Pino", "5", "100")
	p := e.addProducto(t, "Limpiador Multiusos", "0", "0")

	resp, err := catalogoSvc(e).ReemplazarFormula(context.Background(), p.ID, dto.ReemplazarFormulaRequest{
		Filas: []dto.FormulaFilaRequest{
			{MateriaPrimaID: x.ID.String(), Porcentaje: dec("60")},
			{MateriaPrimaID: y.ID.String(), Porcentaje: dec("40")},
		},
	})

	require.NoError(t, err)
	require.Len(t, resp.Filas, 2)
	assert.Equal(t, "Sosa Caustica", resp.Filas[0].MateriaPrima)

	// The cached sell price refreshes right after the recipe change.
	assertDec(t, "10.40", e.productos.items[p.ID].PrecioVenta)
}

func TestReemplazarFormula_MateriaRepetida(t *testing.T) {
	e := newEnv()
	x := e.addMateria(t, "Sosa Caustica", "10", "100")
	p := e.addProducto(t, "Limpiador Multiusos", "0", "0")

	_, err := catalogoSvc(e).ReemplazarFormula(context.Background(), p.ID, dto.ReemplazarFormulaRequest{
		Filas: []dto.FormulaFilaRequest{
			{MateriaPrimaID: x.ID.String(), Porcentaje: dec("60")},
			{MateriaPrimaID: x.ID.String(), Porcentaje: dec("40")},
		},
	})

	assert.Equal(t, apperr.KindConflicto, apperr.KindOf(err))
}

func TestReemplazarFormula_PorcentajeInvalido(t *testing.T) {
	e := newEnv()
	x := e.addMateria(t, "Sosa Caustica", "10", "100")
	p := e.addProducto(t, "Limpiador Multiusos", "0", "0")

	_, err := catalogoSvc(e).ReemplazarFormula(context.Background(), p.ID, dto.ReemplazarFormulaRequest{
		Filas: []dto.FormulaFilaRequest{
			{MateriaPrimaID: x.ID.String(), Porcentaje: dec("0")},
		},
	})

	assert.Equal(t, apperr.KindCantidadInvalida, apperr.KindOf(err))
}

func TestReemplazarFormula_MateriaNoExiste(t *testing.T) {
	e := newEnv()
	p := e.addProducto(t, "Limpiador Multiusos", "0", "0")

	_, err := catalogoSvc(e).ReemplazarFormula(context.Background(), p.ID, dto.ReemplazarFormulaRequest{
		Filas: []dto.FormulaFilaRequest{
			{MateriaPrimaID: uuid.New().String(), Porcentaje: dec("60")},
		},
	})

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCrearPresentacion(t *testing.T) {
	e := newEnv()
	p := e.addProducto(t, "Limpiador Multiusos", "0", "10.40")

	resp, err := catalogoSvc(e).CrearPresentacion(context.Background(), p.ID, dto.CrearPresentacionRequest{
		Nombre:      "Garrafa 20 L",
		Factor:      dec("20"),
		CostoEnvase: dec("15"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Garrafa 20 L", resp.Nombre)
	assertDec(t, "20", resp.Factor)
	assert.Nil(t, resp.PrecioManual)
}

func TestCrearPresentacion_FactorInvalido(t *testing.T) {
	e := newEnv()
	p := e.addProducto(t, "Limpiador Multiusos", "0", "10.40")

	_, err := catalogoSvc(e).CrearPresentacion(context.Background(), p.ID, dto.CrearPresentacionRequest{
		Nombre: "Garrafa 20 L",
		Factor: dec("0"),
	})

	assert.Equal(t, apperr.KindCantidadInvalida, apperr.KindOf(err))
}

func TestActualizarPresentacion_FijaPrecioManual(t *testing.T) {
	e := newEnv()
	p := e.addProducto(t, "Limpiador Multiusos", "0", "10.40")
	pres := addPresentacion(t, e, p.ID, "1 L", "1", "0", nil)

	resp, err := catalogoSvc(e).ActualizarPresentacion(context.Background(), pres.ID, dto.ActualizarPresentacionRequest{
		PrecioManual: decPtr("99.90"),
	})

	require.NoError(t, err)
	require.NotNil(t, resp.PrecioManual)
	assertDec(t, "99.90", *resp.PrecioManual)

	// The resolver now reports the override.
	precio, err := precioSvc(e).ResolverPrecioPresentacion(context.Background(), p.ID, pres.ID)
	require.NoError(t, err)
	assert.Equal(t, PrecioOrigenManual, precio.Origen)
	assertDec(t, "99.90", precio.Precio)
}

func TestActualizarPresentacion_QuitaPrecioManual(t *testing.T) {
	e := newEnv()
	p := e.addProducto(t, "Limpiador Multiusos", "0", "10.40")
	manual := "99.90"
	pres := addPresentacion(t, e, p.ID, "1 L", "1", "0", &manual)

	resp, err := catalogoSvc(e).ActualizarPresentacion(context.Background(), pres.ID, dto.ActualizarPresentacionRequest{
		QuitarPrecioManual: true,
	})

	require.NoError(t, err)
	assert.Nil(t, resp.PrecioManual)

	precio, err := precioSvc(e).ResolverPrecioPresentacion(context.Background(), p.ID, pres.ID)
	require.NoError(t, err)
	assert.Equal(t, PrecioOrigenAutomatico, precio.Origen)
	assertDec(t, "10.40", precio.Precio)
}

func TestActualizarPresentacion_FijarYQuitarALaVez(t *testing.T) {
	e := newEnv()
	p := e.addProducto(t, "Limpiador Multiusos", "0", "10.40")
	pres := addPresentacion(t, e, p.ID, "1 L", "1", "0", nil)

	_, err := catalogoSvc(e).ActualizarPresentacion(context.Background(), pres.ID, dto.ActualizarPresentacionRequest{
		PrecioManual:       decPtr("99.90"),
		QuitarPrecioManual: true,
	})

	assert.Equal(t, apperr.KindConflicto, apperr.KindOf(err))
}

func TestCrearYDesactivarProducto(t *testing.T) {
	e := newEnv()
	svc := catalogoSvc(e)

	resp, err := svc.CrearProducto(context.Background(), dto.CrearProductoRequest{Nombre: "Aromatizante"})
	require.NoError(t, err)
	id, err := uuid.Parse(resp.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DesactivarProducto(context.Background(), id))
	assert.False(t, e.productos.items[id].Activo)

	require.NoError(t, svc.ReactivarProducto(context.Background(), id))
	assert.True(t, e.productos.items[id].Activo)
}

func TestCrearMateriaPrima(t *testing.T) {
	e := newEnv()

	resp, err := catalogoSvc(e).CrearMateriaPrima(context.Background(), dto.CrearMateriaPrimaRequest{
		Nombre:        "Acido Citrico",
		CostoUnitario: decPtr("45.5"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Acido Citrico", resp.Nombre)
	require.NotNil(t, resp.CostoUnitario)
	assertDec(t, "45.5", *resp.CostoUnitario)
}

func TestCrearCliente(t *testing.T) {
	e := newEnv()

	resp, err := catalogoSvc(e).CrearCliente(context.Background(), dto.CrearClienteRequest{Nombre: "Ferreteria El Clavo"})

	require.NoError(t, err)
	assert.Equal(t, "Ferreteria El Clavo", resp.Nombre)

	clientes, err := catalogoSvc(e).ListarClientes(context.Background())
	require.NoError(t, err)
	assert.Len(t, clientes, 1)
}

func TestObtenerFormula(t *testing.T) {
	e := newEnv()
	x := e.addMateria(t, "Sosa Caustica", "10", "100")
	p := e.addProducto(t, "Limpiador Multiusos", "0", "0")
	e.setFormula(p.ID, model.Formula{MateriaPrimaID: x.ID, Porcentaje: dec("60")})

	resp, err := catalogoSvc(e).ObtenerFormula(context.Background(), p.ID)

	require.NoError(t, err)
	require.Len(t, resp.Filas, 1)
	assert.Equal(t, "Sosa Caustica", resp.Filas[0].MateriaPrima)
	assertDec(t, "60", resp.Filas[0].Porcentaje)
}
