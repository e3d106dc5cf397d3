package service

import (
	"context"
	"testing"

	"github.com/MrCorrectoMX/POSQuimo/internal/apperr"
	"github.com/MrCorrectoMX/POSQuimo/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func precioSvc(e *env) PrecioService {
	return NewPrecioService(e.productos, e.presentaciones, e.formulas, dec("1.30"))
}

func addPresentacion(t *testing.T, e *env, productoID uuid.UUID, nombre, factor, envase string, manual *string) *model.Presentacion {
	t.Helper()
	pres := &model.Presentacion{ProductoID: productoID, Nombre: nombre, Factor: dec(factor), CostoEnvase: dec(envase), Activo: true}
	if manual != nil {
		pres.PrecioManual = decPtr(*manual)
	}
	require.NoError(t, e.presentaciones.Create(context.Background(), pres))
	return pres
}

func TestResolverPrecio_ManualGana(t *testing.T) {
	e := newEnv()
	p := e.addProducto(t, "Limpiador Multiusos", "0", "10.40")
	manual := "99.90"
	pres := addPresentacion(t, e, p.ID, "Garrafa 20 L", "20", "15", &manual)

	resp, err := precioSvc(e).ResolverPrecioPresentacion(context.Background(), p.ID, pres.ID)

	require.NoError(t, err)
	assert.Equal(t, PrecioOrigenManual, resp.Origen)
	assertDec(t, "99.90", resp.Precio)
	assertDec(t, "10.40", resp.PrecioBase)
}

func TestResolverPrecio_Automatico(t *testing.T) {
	e := newEnv()
	p := e.addProducto(t, "Limpiador Multiusos", "0", "10.40")
	pres := addPresentacion(t, e, p.ID, "Medio litro", "0.5", "3", nil)

	resp, err := precioSvc(e).ResolverPrecioPresentacion(context.Background(), p.ID, pres.ID)

	require.NoError(t, err)
	assert.Equal(t, PrecioOrigenAutomatico, resp.Origen)
	// 10.40*0.5 + 3
	assertDec(t, "8.20", resp.Precio)
	assertDec(t, "10.40", resp.PrecioBase)
}

func TestResolverPrecio_BaseCeroDerivaDeFormula(t *testing.T) {
	e := newEnv()
	x := e.addMateria(t, "Sosa Caustica", "10", "100")
	y := e.addMateria(t, "Aceite de Pino", "5", "100")
	p := e.addProducto(t, "Limpiador Multiusos", "0", "0")
	e.setFormula(p.ID,
		model.Formula{MateriaPrimaID: x.ID, Porcentaje: dec("60")},
		model.Formula{MateriaPrimaID: y.ID, Porcentaje: dec("40")},
	)
	pres := addPresentacion(t, e, p.ID, "1 L", "1", "0", nil)

	resp, err := precioSvc(e).ResolverPrecioPresentacion(context.Background(), p.ID, pres.ID)

	require.NoError(t, err)
	// cost 8 * margin 1.30
	assertDec(t, "10.40", resp.PrecioBase)
	assertDec(t, "10.40", resp.Precio)
	assert.Equal(t, PrecioOrigenAutomatico, resp.Origen)
}

func TestResolverPrecio_BaseCeroSinFormula(t *testing.T) {
	e := newEnv()
	p := e.addProducto(t, "Limpiador Multiusos", "0", "0")
	pres := addPresentacion(t, e, p.ID, "1 L", "1", "0", nil)

	_, err := precioSvc(e).ResolverPrecioPresentacion(context.Background(), p.ID, pres.ID)

	assert.Equal(t, apperr.KindSinFormula, apperr.KindOf(err))
}

func TestResolverPrecio_PresentacionDeOtroProducto(t *testing.T) {
	e := newEnv()
	a := e.addProducto(t, "Producto A", "0", "10")
	b := e.addProducto(t, "Producto B", "0", "20")
	presDeB := addPresentacion(t, e, b.ID, "1 L", "1", "0", nil)

	_, err := precioSvc(e).ResolverPrecioPresentacion(context.Background(), a.ID, presDeB.ID)

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestResolverPrecio_PresentacionNoExiste(t *testing.T) {
	e := newEnv()
	p := e.addProducto(t, "Producto A", "0", "10")

	_, err := precioSvc(e).ResolverPrecioPresentacion(context.Background(), p.ID, uuid.New())

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
