package service

import (
	"context"
	"errors"
	"testing"

	"github.com/MrCorrectoMX/POSQuimo/internal/apperr"
	"github.com/MrCorrectoMX/POSQuimo/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcularCostoUnitario(t *testing.T) {
	e := newEnv()
	x := e.addMateria(t, "Sosa Caustica", "10", "100")
	y := e.addMateria(t, "Aceite de Pino", "5", "100")
	p := e.addProducto(t, "Limpiador Multiusos", "0", "0")
	e.setFormula(p.ID,
		model.Formula{MateriaPrimaID: x.ID, Porcentaje: dec("60")},
		model.Formula{MateriaPrimaID: y.ID, Porcentaje: dec("40")},
	)

	svc := NewCosteoService(e.productos, e.formulas, dec("1.30"))
	resp, err := svc.CalcularCostoUnitario(context.Background(), p.ID)

	require.NoError(t, err)
	assert.Equal(t, "Limpiador Multiusos", resp.Producto)
	// 0.60*10 + 0.40*5
	assertDec(t, "8", resp.CostoUnitario)
	require.Len(t, resp.Desglose, 2)
	assertDec(t, "6", resp.Desglose[0].Contribucion)
	assertDec(t, "2", resp.Desglose[1].Contribucion)
}

func TestCalcularCostoUnitario_ProductoNoExiste(t *testing.T) {
	e := newEnv()
	svc := NewCosteoService(e.productos, e.formulas, dec("1.30"))

	_, err := svc.CalcularCostoUnitario(context.Background(), uuid.New())

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCalcularCostoUnitario_SinFormula(t *testing.T) {
	e := newEnv()
	p := e.addProducto(t, "Desengrasante", "0", "0")
	svc := NewCosteoService(e.productos, e.formulas, dec("1.30"))

	_, err := svc.CalcularCostoUnitario(context.Background(), p.ID)

	assert.Equal(t, apperr.KindSinFormula, apperr.KindOf(err))
}

func TestCalcularCostoUnitario_ReportaTodasLasMateriasSinCosto(t *testing.T) {
	e := newEnv()
	x := e.addMateria(t, "Colorante Azul", "", "100")
	y := e.addMateria(t, "Esencia Lavanda", "", "100")
	z := e.addMateria(t, "Agua Destilada", "1", "100")
	p := e.addProducto(t, "Suavizante", "0", "0")
	e.setFormula(p.ID,
		model.Formula{MateriaPrimaID: x.ID, Porcentaje: dec("10")},
		model.Formula{MateriaPrimaID: y.ID, Porcentaje: dec("5")},
		model.Formula{MateriaPrimaID: z.ID, Porcentaje: dec("85")},
	)
	svc := NewCosteoService(e.productos, e.formulas, dec("1.30"))

	_, err := svc.CalcularCostoUnitario(context.Background(), p.ID)

	require.Equal(t, apperr.KindCostoIncompleto, apperr.KindOf(err))
	var ae *apperr.Error
	require.True(t, errors.As(err, &ae))
	assert.ElementsMatch(t, []string{"Colorante Azul", "Esencia Lavanda"}, ae.Detalle)
}

func TestRecalcularPrecioVenta_AplicaMargenUnaVez(t *testing.T) {
	e := newEnv()
	x := e.addMateria(t, "Sosa Caustica", "10", "100")
	y := e.addMateria(t, "Aceite de Pino", "5", "100")
	p := e.addProducto(t, "Limpiador Multiusos", "0", "0")
	e.setFormula(p.ID,
		model.Formula{MateriaPrimaID: x.ID, Porcentaje: dec("60")},
		model.Formula{MateriaPrimaID: y.ID, Porcentaje: dec("40")},
	)
	svc := NewCosteoService(e.productos, e.formulas, dec("1.30"))

	require.NoError(t, svc.RecalcularPrecioVenta(context.Background(), p.ID))

	// 8 * 1.30
	assertDec(t, "10.40", e.productos.items[p.ID].PrecioVenta)
}

func TestRecalcularPrecioVenta_SinFormulaConservaPrecio(t *testing.T) {
	e := newEnv()
	p := e.addProducto(t, "Limpiador Multiusos", "0", "25.50")
	svc := NewCosteoService(e.productos, e.formulas, dec("1.30"))

	require.NoError(t, svc.RecalcularPrecioVenta(context.Background(), p.ID))

	assertDec(t, "25.50", e.productos.items[p.ID].PrecioVenta)
}

func TestRecalcularPorMateriaPrima(t *testing.T) {
	e := newEnv()
	x := e.addMateria(t, "Sosa Caustica", "10", "100")
	sinCosto := e.addMateria(t, "Esencia Nueva", "", "100")

	a := e.addProducto(t, "Producto A", "0", "0")
	e.setFormula(a.ID, model.Formula{MateriaPrimaID: x.ID, Porcentaje: dec("100")})

	// B also uses the material but its recipe is incomplete; it must not
	// block A's refresh.
	b := e.addProducto(t, "Producto B", "0", "7.77")
	e.setFormula(b.ID,
		model.Formula{MateriaPrimaID: x.ID, Porcentaje: dec("50")},
		model.Formula{MateriaPrimaID: sinCosto.ID, Porcentaje: dec("50")},
	)

	svc := NewCosteoService(e.productos, e.formulas, dec("1.30"))
	require.NoError(t, svc.RecalcularPorMateriaPrima(context.Background(), x.ID))

	assertDec(t, "13.00", e.productos.items[a.ID].PrecioVenta)
	assertDec(t, "7.77", e.productos.items[b.ID].PrecioVenta)
}
