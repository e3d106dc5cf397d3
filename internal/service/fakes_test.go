package service

import (
	"context"
	"testing"
	"time"

	"github.com/MrCorrectoMX/POSQuimo/internal/dto"
	"github.com/MrCorrectoMX/POSQuimo/internal/model"
	"github.com/MrCorrectoMX/POSQuimo/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

// ── In-memory Repository Stubs ───────────────────────────────────────────────
// Every DB() returns nil so runTx runs the callback directly, without a real
// transaction. Reads return copies, mimicking fresh rows from the database.

var (
	_ repository.ProductoRepository        = (*fakeProductoRepo)(nil)
	_ repository.MateriaPrimaRepository    = (*fakeMateriaPrimaRepo)(nil)
	_ repository.FormulaRepository         = (*fakeFormulaRepo)(nil)
	_ repository.PresentacionRepository    = (*fakePresentacionRepo)(nil)
	_ repository.ProduccionRepository      = (*fakeProduccionRepo)(nil)
	_ repository.ProductoReventaRepository = (*fakeReventaRepo)(nil)
	_ repository.FondoRepository           = (*fakeFondoRepo)(nil)
	_ repository.ClienteRepository         = (*fakeClienteRepo)(nil)
	_ repository.ConfiguracionRepository   = (*fakeConfigRepo)(nil)
	_ repository.VentaRepository           = (*fakeVentaRepo)(nil)
)

// ---- productos

type fakeProductoRepo struct {
	items map[uuid.UUID]*model.Producto
}

func newFakeProductoRepo() *fakeProductoRepo {
	return &fakeProductoRepo{items: map[uuid.UUID]*model.Producto{}}
}

func (f *fakeProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakeProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductoRepo) FindByNombre(_ context.Context, nombre string) (*model.Producto, error) {
	for _, p := range f.items {
		if p.Nombre == nombre {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProductoRepo) List(_ context.Context, _ dto.CatalogoFilter) ([]model.Producto, int64, error) {
	out := make([]model.Producto, 0, len(f.items))
	for _, p := range f.items {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProductoRepo) Update(_ context.Context, p *model.Producto) error {
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakeProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := f.items[id]; ok {
		p.Activo = false
	}
	return nil
}

func (f *fakeProductoRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if p, ok := f.items[id]; ok {
		p.Activo = true
	}
	return nil
}

func (f *fakeProductoRepo) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	return f.FindByID(context.Background(), id)
}

func (f *fakeProductoRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	p, ok := f.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock = p.Stock.Add(delta)
	return nil
}

func (f *fakeProductoRepo) UpdatePrecioVentaTx(_ *gorm.DB, id uuid.UUID, precio decimal.Decimal) error {
	return f.UpdatePrecioVenta(context.Background(), id, precio)
}

func (f *fakeProductoRepo) UpdatePrecioVenta(_ context.Context, id uuid.UUID, precio decimal.Decimal) error {
	p, ok := f.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.PrecioVenta = precio
	return nil
}

func (f *fakeProductoRepo) DB() *gorm.DB { return nil }

// ---- materias primas

type fakeMateriaPrimaRepo struct {
	items map[uuid.UUID]*model.MateriaPrima
}

func newFakeMateriaPrimaRepo() *fakeMateriaPrimaRepo {
	return &fakeMateriaPrimaRepo{items: map[uuid.UUID]*model.MateriaPrima{}}
}

func (f *fakeMateriaPrimaRepo) Create(_ context.Context, mp *model.MateriaPrima) error {
	if mp.ID == uuid.Nil {
		mp.ID = uuid.New()
	}
	cp := *mp
	f.items[mp.ID] = &cp
	return nil
}

func (f *fakeMateriaPrimaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.MateriaPrima, error) {
	mp, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *mp
	return &cp, nil
}

func (f *fakeMateriaPrimaRepo) FindByNombre(_ context.Context, nombre string) (*model.MateriaPrima, error) {
	for _, mp := range f.items {
		if mp.Nombre == nombre {
			cp := *mp
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMateriaPrimaRepo) List(_ context.Context, _ dto.CatalogoFilter) ([]model.MateriaPrima, int64, error) {
	out := make([]model.MateriaPrima, 0, len(f.items))
	for _, mp := range f.items {
		out = append(out, *mp)
	}
	return out, int64(len(out)), nil
}

func (f *fakeMateriaPrimaRepo) Update(_ context.Context, mp *model.MateriaPrima) error {
	cp := *mp
	f.items[mp.ID] = &cp
	return nil
}

func (f *fakeMateriaPrimaRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if mp, ok := f.items[id]; ok {
		mp.Activo = false
	}
	return nil
}

func (f *fakeMateriaPrimaRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if mp, ok := f.items[id]; ok {
		mp.Activo = true
	}
	return nil
}

func (f *fakeMateriaPrimaRepo) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.MateriaPrima, error) {
	return f.FindByID(context.Background(), id)
}

func (f *fakeMateriaPrimaRepo) FindAllForUpdateTx(_ *gorm.DB, ids []uuid.UUID) ([]model.MateriaPrima, error) {
	out := make([]model.MateriaPrima, 0, len(ids))
	for _, id := range ids {
		if mp, ok := f.items[id]; ok {
			out = append(out, *mp)
		}
	}
	return out, nil
}

func (f *fakeMateriaPrimaRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	mp, ok := f.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	mp.Stock = mp.Stock.Add(delta)
	return nil
}

func (f *fakeMateriaPrimaRepo) UpdateCostoTx(_ *gorm.DB, id uuid.UUID, costo decimal.Decimal) error {
	mp, ok := f.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c := costo
	mp.CostoUnitario = &c
	return nil
}

func (f *fakeMateriaPrimaRepo) DB() *gorm.DB { return nil }

// ---- formulas

// fakeFormulaRepo resolves MateriaPrima from the material stub on every list,
// mimicking the Preload: recipe reads always see current costs.
type fakeFormulaRepo struct {
	filas map[uuid.UUID][]model.Formula
	mps   *fakeMateriaPrimaRepo
}

func (f *fakeFormulaRepo) conMaterias(filas []model.Formula) []model.Formula {
	out := make([]model.Formula, len(filas))
	for i, fila := range filas {
		out[i] = fila
		if mp, ok := f.mps.items[fila.MateriaPrimaID]; ok {
			cp := *mp
			out[i].MateriaPrima = &cp
		}
	}
	return out
}

func (f *fakeFormulaRepo) ListByProducto(_ context.Context, productoID uuid.UUID) ([]model.Formula, error) {
	return f.conMaterias(f.filas[productoID]), nil
}

func (f *fakeFormulaRepo) ListByProductoTx(_ *gorm.DB, productoID uuid.UUID) ([]model.Formula, error) {
	return f.conMaterias(f.filas[productoID]), nil
}

func (f *fakeFormulaRepo) Replace(_ context.Context, productoID uuid.UUID, filas []model.Formula) error {
	for i := range filas {
		if filas[i].ID == uuid.Nil {
			filas[i].ID = uuid.New()
		}
	}
	f.filas[productoID] = filas
	return nil
}

func (f *fakeFormulaRepo) ListProductoIDsPorMateria(_ context.Context, materiaPrimaID uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for pid, filas := range f.filas {
		for _, fila := range filas {
			if fila.MateriaPrimaID == materiaPrimaID {
				out = append(out, pid)
				break
			}
		}
	}
	return out, nil
}

// ---- presentaciones

type fakePresentacionRepo struct {
	items map[uuid.UUID]*model.Presentacion
}

func newFakePresentacionRepo() *fakePresentacionRepo {
	return &fakePresentacionRepo{items: map[uuid.UUID]*model.Presentacion{}}
}

func (f *fakePresentacionRepo) Create(_ context.Context, p *model.Presentacion) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakePresentacionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Presentacion, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePresentacionRepo) ListByProducto(_ context.Context, productoID uuid.UUID) ([]model.Presentacion, error) {
	var out []model.Presentacion
	for _, p := range f.items {
		if p.ProductoID == productoID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePresentacionRepo) Update(_ context.Context, p *model.Presentacion) error {
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakePresentacionRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := f.items[id]; ok {
		p.Activo = false
	}
	return nil
}

func (f *fakePresentacionRepo) SetPrecioManual(_ context.Context, id uuid.UUID, precio *decimal.Decimal) error {
	p, ok := f.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.PrecioManual = precio
	return nil
}

// ---- produccion

type fakeProduccionRepo struct {
	registros map[uuid.UUID]*model.Produccion
}

func newFakeProduccionRepo() *fakeProduccionRepo {
	return &fakeProduccionRepo{registros: map[uuid.UUID]*model.Produccion{}}
}

func (f *fakeProduccionRepo) UpsertMergeTx(_ *gorm.DB, p *model.Produccion) error {
	for _, r := range f.registros {
		if r.ProductoID == p.ProductoID && r.Fecha.Equal(p.Fecha) {
			r.Cantidad = r.Cantidad.Add(p.Cantidad)
			r.Costo = r.Costo.Add(p.Costo)
			p.ID = r.ID
			return nil
		}
	}
	p.ID = uuid.New()
	cp := *p
	f.registros[p.ID] = &cp
	return nil
}

func (f *fakeProduccionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Produccion, error) {
	r, ok := f.registros[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeProduccionRepo) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Produccion, error) {
	return f.FindByID(context.Background(), id)
}

func (f *fakeProduccionRepo) UpdateCantidadCostoTx(_ *gorm.DB, id uuid.UUID, cantidad, costo decimal.Decimal) error {
	r, ok := f.registros[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.Cantidad = cantidad
	r.Costo = costo
	return nil
}

func (f *fakeProduccionRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(f.registros, id)
	return nil
}

func (f *fakeProduccionRepo) ListByRango(_ context.Context, desde, hasta time.Time) ([]model.Produccion, error) {
	var out []model.Produccion
	for _, r := range f.registros {
		if !r.Fecha.Before(desde) && !r.Fecha.After(hasta) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeProduccionRepo) DB() *gorm.DB { return nil }

// ---- reventa

type fakeReventaRepo struct {
	items map[uuid.UUID]*model.ProductoReventa
}

func newFakeReventaRepo() *fakeReventaRepo {
	return &fakeReventaRepo{items: map[uuid.UUID]*model.ProductoReventa{}}
}

func (f *fakeReventaRepo) Create(_ context.Context, p *model.ProductoReventa) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakeReventaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ProductoReventa, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeReventaRepo) List(_ context.Context, _ dto.CatalogoFilter) ([]model.ProductoReventa, int64, error) {
	out := make([]model.ProductoReventa, 0, len(f.items))
	for _, p := range f.items {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeReventaRepo) Update(_ context.Context, p *model.ProductoReventa) error {
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakeReventaRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := f.items[id]; ok {
		p.Activo = false
	}
	return nil
}

func (f *fakeReventaRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if p, ok := f.items[id]; ok {
		p.Activo = true
	}
	return nil
}

func (f *fakeReventaRepo) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.ProductoReventa, error) {
	return f.FindByID(context.Background(), id)
}

func (f *fakeReventaRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	p, ok := f.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock = p.Stock.Add(delta)
	return nil
}

// ---- fondo

type fakeFondoRepo struct {
	movs   []model.MovimientoFondo
	nextID int64
}

func (f *fakeFondoRepo) LastForUpdateTx(_ *gorm.DB) (*model.MovimientoFondo, error) {
	if len(f.movs) == 0 {
		return nil, nil
	}
	cp := f.movs[len(f.movs)-1]
	return &cp, nil
}

func (f *fakeFondoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoFondo) error {
	f.nextID++
	m.ID = f.nextID
	f.movs = append(f.movs, *m)
	return nil
}

func (f *fakeFondoRepo) FindByID(_ context.Context, id int64) (*model.MovimientoFondo, error) {
	for _, m := range f.movs {
		if m.ID == id {
			cp := m
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeFondoRepo) FindForUpdateTx(_ *gorm.DB, id int64) (*model.MovimientoFondo, error) {
	return f.FindByID(context.Background(), id)
}

func (f *fakeFondoRepo) DeleteTx(_ *gorm.DB, id int64) error {
	for i, m := range f.movs {
		if m.ID == id {
			f.movs = append(f.movs[:i], f.movs[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeFondoRepo) AjustarSaldosPosterioresTx(_ *gorm.DB, id int64, ajuste decimal.Decimal) error {
	for i := range f.movs {
		if f.movs[i].ID > id {
			f.movs[i].Saldo = f.movs[i].Saldo.Add(ajuste)
		}
	}
	return nil
}

func (f *fakeFondoRepo) List(_ context.Context, desde, hasta *time.Time) ([]model.MovimientoFondo, error) {
	var out []model.MovimientoFondo
	for _, m := range f.movs {
		if desde != nil && m.Fecha.Before(*desde) {
			continue
		}
		if hasta != nil && m.Fecha.After(*hasta) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeFondoRepo) Saldo(_ context.Context) (decimal.Decimal, error) {
	if len(f.movs) == 0 {
		return decimal.Zero, nil
	}
	return f.movs[len(f.movs)-1].Saldo, nil
}

func (f *fakeFondoRepo) DB() *gorm.DB { return nil }

// ---- clientes

type fakeClienteRepo struct {
	items map[uuid.UUID]*model.Cliente
}

func newFakeClienteRepo() *fakeClienteRepo {
	return &fakeClienteRepo{items: map[uuid.UUID]*model.Cliente{}}
}

func (f *fakeClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	f.items[c.ID] = &cp
	return nil
}

func (f *fakeClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeClienteRepo) FindByNombre(_ context.Context, nombre string) (*model.Cliente, error) {
	for _, c := range f.items {
		if c.Nombre == nombre {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeClienteRepo) List(_ context.Context) ([]model.Cliente, error) {
	out := make([]model.Cliente, 0, len(f.items))
	for _, c := range f.items {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	cp := *c
	f.items[c.ID] = &cp
	return nil
}

func (f *fakeClienteRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if c, ok := f.items[id]; ok {
		c.Activo = false
	}
	return nil
}

// ---- configuracion

type fakeConfigRepo struct {
	valores map[string]string
}

func (f *fakeConfigRepo) Get(_ context.Context, clave string) (string, error) {
	v, ok := f.valores[clave]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return v, nil
}

func (f *fakeConfigRepo) Set(_ context.Context, clave, valor string) error {
	f.valores[clave] = valor
	return nil
}

// ---- ventas

type fakeVentaRepo struct {
	ventas     []model.Venta
	archivadas []model.VentaArchivada
}

func (f *fakeVentaRepo) CreateTx(_ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	f.ventas = append(f.ventas, *v)
	return nil
}

func (f *fakeVentaRepo) ListByRango(_ context.Context, desde, hasta time.Time) ([]model.Venta, error) {
	var out []model.Venta
	for _, v := range f.ventas {
		if !v.Fecha.Before(desde) && !v.Fecha.After(hasta) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVentaRepo) ArchivarSemanaTx(_ *gorm.DB, semanaInicio, semanaFin time.Time) (int64, error) {
	n := int64(len(f.ventas))
	for _, v := range f.ventas {
		f.archivadas = append(f.archivadas, model.VentaArchivada{
			ID:             uuid.New(),
			VentaID:        v.ID,
			Fecha:          v.Fecha,
			ClienteID:      v.ClienteID,
			TipoItem:       v.TipoItem,
			ItemID:         v.ItemID,
			NombreItem:     v.NombreItem,
			Cantidad:       v.Cantidad,
			PrecioUnitario: v.PrecioUnitario,
			Total:          v.Total,
			SemanaInicio:   semanaInicio,
			SemanaFin:      semanaFin,
		})
	}
	f.ventas = nil
	return n, nil
}

func (f *fakeVentaRepo) SumTotalTx(_ *gorm.DB) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, v := range f.ventas {
		total = total.Add(v.Total)
	}
	return total, nil
}

func (f *fakeVentaRepo) ListArchivadas(_ context.Context, semanaInicio time.Time) ([]model.VentaArchivada, error) {
	var out []model.VentaArchivada
	for _, v := range f.archivadas {
		if v.SemanaInicio.Equal(semanaInicio) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVentaRepo) DB() *gorm.DB { return nil }

// ── Fixture ──────────────────────────────────────────────────────────────────

type env struct {
	productos      *fakeProductoRepo
	materias       *fakeMateriaPrimaRepo
	formulas       *fakeFormulaRepo
	presentaciones *fakePresentacionRepo
	produccion     *fakeProduccionRepo
	reventa        *fakeReventaRepo
	clientes       *fakeClienteRepo
	fondo          *fakeFondoRepo
	config         *fakeConfigRepo
	ventas         *fakeVentaRepo
}

func newEnv() *env {
	materias := newFakeMateriaPrimaRepo()
	return &env{
		productos:      newFakeProductoRepo(),
		materias:       materias,
		formulas:       &fakeFormulaRepo{filas: map[uuid.UUID][]model.Formula{}, mps: materias},
		presentaciones: newFakePresentacionRepo(),
		produccion:     newFakeProduccionRepo(),
		reventa:        newFakeReventaRepo(),
		clientes:       newFakeClienteRepo(),
		fondo:          &fakeFondoRepo{},
		config:         &fakeConfigRepo{valores: map[string]string{}},
		ventas:         &fakeVentaRepo{},
	}
}

func (e *env) addProducto(t *testing.T, nombre, stock, precioVenta string) *model.Producto {
	t.Helper()
	p := &model.Producto{Nombre: nombre, Stock: dec(stock), PrecioVenta: dec(precioVenta), Activo: true}
	require.NoError(t, e.productos.Create(context.Background(), p))
	return p
}

// addMateria registers a raw material; costo "" leaves the unit cost unset.
func (e *env) addMateria(t *testing.T, nombre, costo, stock string) *model.MateriaPrima {
	t.Helper()
	mp := &model.MateriaPrima{Nombre: nombre, Stock: dec(stock), Moneda: "MXN", Activo: true}
	if costo != "" {
		mp.CostoUnitario = decPtr(costo)
	}
	require.NoError(t, e.materias.Create(context.Background(), mp))
	return mp
}

func (e *env) setFormula(productoID uuid.UUID, filas ...model.Formula) {
	for i := range filas {
		filas[i].ID = uuid.New()
		filas[i].ProductoID = productoID
	}
	e.formulas.filas[productoID] = filas
}
