package service

import (
	"context"
	"errors"

	"github.com/MrCorrectoMX/POSQuimo/internal/apperr"
	"github.com/MrCorrectoMX/POSQuimo/internal/dto"
	"github.com/MrCorrectoMX/POSQuimo/internal/model"
	"github.com/MrCorrectoMX/POSQuimo/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CatalogoService is the CRUD surface over the four catalogs (manufactured
// products, raw materials, resale products, clients) plus recipes and
// presentations. Writes that affect derived prices trigger a recalculation.
type CatalogoService interface {
	// Productos manufacturados
	CrearProducto(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerProducto(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	ListarProductos(ctx context.Context, filter dto.CatalogoFilter) (*dto.ProductoListResponse, error)
	ActualizarProducto(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	DesactivarProducto(ctx context.Context, id uuid.UUID) error
	ReactivarProducto(ctx context.Context, id uuid.UUID) error

	// Materias primas
	CrearMateriaPrima(ctx context.Context, req dto.CrearMateriaPrimaRequest) (*dto.MateriaPrimaResponse, error)
	ListarMateriasPrimas(ctx context.Context, filter dto.CatalogoFilter) (*dto.MateriaPrimaListResponse, error)
	ActualizarMateriaPrima(ctx context.Context, id uuid.UUID, req dto.ActualizarMateriaPrimaRequest) (*dto.MateriaPrimaResponse, error)
	DesactivarMateriaPrima(ctx context.Context, id uuid.UUID) error

	// Productos de reventa
	CrearProductoReventa(ctx context.Context, req dto.CrearProductoReventaRequest) (*dto.ProductoReventaResponse, error)
	ListarProductosReventa(ctx context.Context, filter dto.CatalogoFilter) (*dto.ProductoReventaListResponse, error)
	ActualizarProductoReventa(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoReventaRequest) (*dto.ProductoReventaResponse, error)
	DesactivarProductoReventa(ctx context.Context, id uuid.UUID) error

	// Formulas
	ObtenerFormula(ctx context.Context, productoID uuid.UUID) (*dto.FormulaResponse, error)
	ReemplazarFormula(ctx context.Context, productoID uuid.UUID, req dto.ReemplazarFormulaRequest) (*dto.FormulaResponse, error)

	// Presentaciones
	CrearPresentacion(ctx context.Context, productoID uuid.UUID, req dto.CrearPresentacionRequest) (*dto.PresentacionResponse, error)
	ListarPresentaciones(ctx context.Context, productoID uuid.UUID) ([]dto.PresentacionResponse, error)
	ActualizarPresentacion(ctx context.Context, id uuid.UUID, req dto.ActualizarPresentacionRequest) (*dto.PresentacionResponse, error)
	DesactivarPresentacion(ctx context.Context, id uuid.UUID) error

	// Clientes
	CrearCliente(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	ListarClientes(ctx context.Context) ([]dto.ClienteResponse, error)
	DesactivarCliente(ctx context.Context, id uuid.UUID) error
}

type catalogoService struct {
	productoRepo     repository.ProductoRepository
	materiaPrimaRepo repository.MateriaPrimaRepository
	reventaRepo      repository.ProductoReventaRepository
	formulaRepo      repository.FormulaRepository
	presentacionRepo repository.PresentacionRepository
	clienteRepo      repository.ClienteRepository
	costeo           CosteoService
}

func NewCatalogoService(
	productoRepo repository.ProductoRepository,
	materiaPrimaRepo repository.MateriaPrimaRepository,
	reventaRepo repository.ProductoReventaRepository,
	formulaRepo repository.FormulaRepository,
	presentacionRepo repository.PresentacionRepository,
	clienteRepo repository.ClienteRepository,
	costeo CosteoService,
) CatalogoService {
	return &catalogoService{
		productoRepo:     productoRepo,
		materiaPrimaRepo: materiaPrimaRepo,
		reventaRepo:      reventaRepo,
		formulaRepo:      formulaRepo,
		presentacionRepo: presentacionRepo,
		clienteRepo:      clienteRepo,
		costeo:           costeo,
	}
}

func notFoundOr(err error, recurso string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(recurso)
	}
	return err
}

// ── Productos ───────────────────────────────────────────────────────────────

func (s *catalogoService) CrearProducto(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	p := &model.Producto{Nombre: req.Nombre}
	if req.UnidadMedida != "" {
		p.UnidadMedida = req.UnidadMedida
	}
	if req.Area != "" {
		p.Area = req.Area
	}
	if err := s.productoRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *catalogoService) ObtenerProducto(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.productoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "producto")
	}
	return productoToResponse(p), nil
}

func (s *catalogoService) ListarProductos(ctx context.Context, filter dto.CatalogoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	productos, total, err := s.productoRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		data = append(data, *productoToResponse(&productos[i]))
	}
	return &dto.ProductoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *catalogoService) ActualizarProducto(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.productoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "producto")
	}
	if req.Nombre != "" {
		p.Nombre = req.Nombre
	}
	if req.UnidadMedida != "" {
		p.UnidadMedida = req.UnidadMedida
	}
	if req.Area != "" {
		p.Area = req.Area
	}
	if err := s.productoRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *catalogoService) DesactivarProducto(ctx context.Context, id uuid.UUID) error {
	return s.productoRepo.SoftDelete(ctx, id)
}

func (s *catalogoService) ReactivarProducto(ctx context.Context, id uuid.UUID) error {
	return s.productoRepo.Reactivar(ctx, id)
}

// ── Materias primas ─────────────────────────────────────────────────────────

func (s *catalogoService) CrearMateriaPrima(ctx context.Context, req dto.CrearMateriaPrimaRequest) (*dto.MateriaPrimaResponse, error) {
	mp := &model.MateriaPrima{Nombre: req.Nombre, Proveedor: req.Proveedor}
	if req.UnidadMedida != "" {
		mp.UnidadMedida = req.UnidadMedida
	}
	if req.CostoUnitario != nil {
		if req.Moneda == "USD" {
			return nil, apperr.MonedaInvalida("USD: registre la compra para convertir a MXN")
		}
		mp.CostoUnitario = req.CostoUnitario
	}
	if err := s.materiaPrimaRepo.Create(ctx, mp); err != nil {
		return nil, err
	}
	return materiaPrimaToResponse(mp), nil
}

func (s *catalogoService) ListarMateriasPrimas(ctx context.Context, filter dto.CatalogoFilter) (*dto.MateriaPrimaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	materias, total, err := s.materiaPrimaRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MateriaPrimaResponse, 0, len(materias))
	for i := range materias {
		data = append(data, *materiaPrimaToResponse(&materias[i]))
	}
	return &dto.MateriaPrimaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *catalogoService) ActualizarMateriaPrima(ctx context.Context, id uuid.UUID, req dto.ActualizarMateriaPrimaRequest) (*dto.MateriaPrimaResponse, error) {
	mp, err := s.materiaPrimaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "materia prima")
	}
	if req.Nombre != "" {
		mp.Nombre = req.Nombre
	}
	if req.UnidadMedida != "" {
		mp.UnidadMedida = req.UnidadMedida
	}
	if req.Proveedor != nil {
		mp.Proveedor = req.Proveedor
	}
	costoCambio := false
	if req.CostoUnitario != nil {
		if req.Moneda == "USD" {
			return nil, apperr.MonedaInvalida("USD: registre la compra para convertir a MXN")
		}
		mp.CostoUnitario = req.CostoUnitario
		costoCambio = true
	}
	if err := s.materiaPrimaRepo.Update(ctx, mp); err != nil {
		return nil, err
	}
	if costoCambio && s.costeo != nil {
		if err := s.costeo.RecalcularPorMateriaPrima(ctx, id); err != nil {
			log.Warn().Err(err).Str("materia_prima_id", id.String()).Msg("recalculo de precios fallo")
		}
	}
	return materiaPrimaToResponse(mp), nil
}

func (s *catalogoService) DesactivarMateriaPrima(ctx context.Context, id uuid.UUID) error {
	return s.materiaPrimaRepo.SoftDelete(ctx, id)
}

// ── Productos de reventa ────────────────────────────────────────────────────

func (s *catalogoService) CrearProductoReventa(ctx context.Context, req dto.CrearProductoReventaRequest) (*dto.ProductoReventaResponse, error) {
	p := &model.ProductoReventa{
		Nombre:       req.Nombre,
		Proveedor:    req.Proveedor,
		PrecioCompra: req.PrecioCompra,
		PrecioVenta:  req.PrecioVenta,
	}
	if req.UnidadMedida != "" {
		p.UnidadMedida = req.UnidadMedida
	}
	if err := s.reventaRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return reventaToResponse(p), nil
}

func (s *catalogoService) ListarProductosReventa(ctx context.Context, filter dto.CatalogoFilter) (*dto.ProductoReventaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	productos, total, err := s.reventaRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoReventaResponse, 0, len(productos))
	for i := range productos {
		data = append(data, *reventaToResponse(&productos[i]))
	}
	return &dto.ProductoReventaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *catalogoService) ActualizarProductoReventa(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoReventaRequest) (*dto.ProductoReventaResponse, error) {
	p, err := s.reventaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "producto de reventa")
	}
	if req.Nombre != "" {
		p.Nombre = req.Nombre
	}
	if req.UnidadMedida != "" {
		p.UnidadMedida = req.UnidadMedida
	}
	if req.Proveedor != nil {
		p.Proveedor = req.Proveedor
	}
	if req.PrecioCompra != nil {
		p.PrecioCompra = *req.PrecioCompra
	}
	if req.PrecioVenta != nil {
		p.PrecioVenta = *req.PrecioVenta
	}
	if err := s.reventaRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return reventaToResponse(p), nil
}

func (s *catalogoService) DesactivarProductoReventa(ctx context.Context, id uuid.UUID) error {
	return s.reventaRepo.SoftDelete(ctx, id)
}

// ── Formulas ────────────────────────────────────────────────────────────────

func (s *catalogoService) ObtenerFormula(ctx context.Context, productoID uuid.UUID) (*dto.FormulaResponse, error) {
	filas, err := s.formulaRepo.ListByProducto(ctx, productoID)
	if err != nil {
		return nil, err
	}
	return formulaToResponse(productoID, filas), nil
}

// ReemplazarFormula swaps the product's whole recipe. Percentages are
// consumption rates, not shares of a whole: no sum-to-100 check on purpose,
// because real recipes include additives past the base 100%.
func (s *catalogoService) ReemplazarFormula(ctx context.Context, productoID uuid.UUID, req dto.ReemplazarFormulaRequest) (*dto.FormulaResponse, error) {
	if _, err := s.productoRepo.FindByID(ctx, productoID); err != nil {
		return nil, notFoundOr(err, "producto")
	}

	filas := make([]model.Formula, 0, len(req.Filas))
	vistos := make(map[uuid.UUID]bool, len(req.Filas))
	for _, f := range req.Filas {
		mpID, err := uuid.Parse(f.MateriaPrimaID)
		if err != nil {
			return nil, apperr.CantidadInvalida("materia_prima_id invalido")
		}
		if !f.Porcentaje.IsPositive() {
			return nil, apperr.CantidadInvalida("el porcentaje debe ser mayor que cero")
		}
		if vistos[mpID] {
			return nil, apperr.Conflicto("materia prima repetida en la formula")
		}
		vistos[mpID] = true
		if _, err := s.materiaPrimaRepo.FindByID(ctx, mpID); err != nil {
			return nil, notFoundOr(err, "materia prima")
		}
		filas = append(filas, model.Formula{
			ProductoID:     productoID,
			MateriaPrimaID: mpID,
			Porcentaje:     f.Porcentaje,
		})
	}

	if err := s.formulaRepo.Replace(ctx, productoID, filas); err != nil {
		return nil, err
	}

	if s.costeo != nil {
		if err := s.costeo.RecalcularPrecioVenta(ctx, productoID); err != nil {
			log.Warn().Err(err).Str("producto_id", productoID.String()).Msg("recalculo de precio fallo tras cambio de formula")
		}
	}

	guardadas, err := s.formulaRepo.ListByProducto(ctx, productoID)
	if err != nil {
		return nil, err
	}
	return formulaToResponse(productoID, guardadas), nil
}

// ── Presentaciones ──────────────────────────────────────────────────────────

func (s *catalogoService) CrearPresentacion(ctx context.Context, productoID uuid.UUID, req dto.CrearPresentacionRequest) (*dto.PresentacionResponse, error) {
	if _, err := s.productoRepo.FindByID(ctx, productoID); err != nil {
		return nil, notFoundOr(err, "producto")
	}
	if !req.Factor.IsPositive() {
		return nil, apperr.CantidadInvalida("el factor debe ser mayor que cero")
	}
	p := &model.Presentacion{
		ProductoID:   productoID,
		Nombre:       req.Nombre,
		Factor:       req.Factor,
		CostoEnvase:  req.CostoEnvase,
		PrecioManual: req.PrecioManual,
	}
	if err := s.presentacionRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return presentacionToResponse(p), nil
}

func (s *catalogoService) ListarPresentaciones(ctx context.Context, productoID uuid.UUID) ([]dto.PresentacionResponse, error) {
	pres, err := s.presentacionRepo.ListByProducto(ctx, productoID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PresentacionResponse, 0, len(pres))
	for i := range pres {
		out = append(out, *presentacionToResponse(&pres[i]))
	}
	return out, nil
}

func (s *catalogoService) ActualizarPresentacion(ctx context.Context, id uuid.UUID, req dto.ActualizarPresentacionRequest) (*dto.PresentacionResponse, error) {
	if req.PrecioManual != nil && req.QuitarPrecioManual {
		return nil, apperr.Conflicto("no se puede fijar y quitar el precio manual a la vez")
	}
	p, err := s.presentacionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "presentacion")
	}
	if req.Nombre != "" {
		p.Nombre = req.Nombre
	}
	if req.Factor != nil {
		if !req.Factor.IsPositive() {
			return nil, apperr.CantidadInvalida("el factor debe ser mayor que cero")
		}
		p.Factor = *req.Factor
	}
	if req.CostoEnvase != nil {
		p.CostoEnvase = *req.CostoEnvase
	}
	if req.PrecioManual != nil {
		p.PrecioManual = req.PrecioManual
	}
	if req.QuitarPrecioManual {
		p.PrecioManual = nil
		if err := s.presentacionRepo.SetPrecioManual(ctx, id, nil); err != nil {
			return nil, err
		}
	}
	if err := s.presentacionRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return presentacionToResponse(p), nil
}

func (s *catalogoService) DesactivarPresentacion(ctx context.Context, id uuid.UUID) error {
	return s.presentacionRepo.SoftDelete(ctx, id)
}

// ── Clientes ────────────────────────────────────────────────────────────────

func (s *catalogoService) CrearCliente(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	c := &model.Cliente{Nombre: req.Nombre, Telefono: req.Telefono, Email: req.Email}
	if err := s.clienteRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return clienteToResponse(c), nil
}

func (s *catalogoService) ListarClientes(ctx context.Context) ([]dto.ClienteResponse, error) {
	clientes, err := s.clienteRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClienteResponse, 0, len(clientes))
	for i := range clientes {
		out = append(out, *clienteToResponse(&clientes[i]))
	}
	return out, nil
}

func (s *catalogoService) DesactivarCliente(ctx context.Context, id uuid.UUID) error {
	return s.clienteRepo.SoftDelete(ctx, id)
}

// ── Mappers ─────────────────────────────────────────────────────────────────

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:           p.ID.String(),
		Nombre:       p.Nombre,
		UnidadMedida: p.UnidadMedida,
		Area:         p.Area,
		Stock:        p.Stock,
		PrecioVenta:  p.PrecioVenta,
		Activo:       p.Activo,
	}
}

func materiaPrimaToResponse(mp *model.MateriaPrima) *dto.MateriaPrimaResponse {
	return &dto.MateriaPrimaResponse{
		ID:            mp.ID.String(),
		Nombre:        mp.Nombre,
		UnidadMedida:  mp.UnidadMedida,
		CostoUnitario: mp.CostoUnitario,
		Moneda:        mp.Moneda,
		Stock:         mp.Stock,
		Proveedor:     mp.Proveedor,
		Activo:        mp.Activo,
	}
}

func reventaToResponse(p *model.ProductoReventa) *dto.ProductoReventaResponse {
	return &dto.ProductoReventaResponse{
		ID:           p.ID.String(),
		Nombre:       p.Nombre,
		UnidadMedida: p.UnidadMedida,
		Proveedor:    p.Proveedor,
		PrecioCompra: p.PrecioCompra,
		PrecioVenta:  p.PrecioVenta,
		Stock:        p.Stock,
		Activo:       p.Activo,
	}
}

func formulaToResponse(productoID uuid.UUID, filas []model.Formula) *dto.FormulaResponse {
	out := make([]dto.FormulaFilaResponse, 0, len(filas))
	for _, f := range filas {
		nombre := ""
		if f.MateriaPrima != nil {
			nombre = f.MateriaPrima.Nombre
		}
		out = append(out, dto.FormulaFilaResponse{
			MateriaPrimaID: f.MateriaPrimaID.String(),
			MateriaPrima:   nombre,
			Porcentaje:     f.Porcentaje,
		})
	}
	return &dto.FormulaResponse{ProductoID: productoID.String(), Filas: out}
}

func presentacionToResponse(p *model.Presentacion) *dto.PresentacionResponse {
	return &dto.PresentacionResponse{
		ID:           p.ID.String(),
		ProductoID:   p.ProductoID.String(),
		Nombre:       p.Nombre,
		Factor:       p.Factor,
		CostoEnvase:  p.CostoEnvase,
		PrecioManual: p.PrecioManual,
		Activo:       p.Activo,
	}
}

func clienteToResponse(c *model.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:       c.ID.String(),
		Nombre:   c.Nombre,
		Telefono: c.Telefono,
		Email:    c.Email,
		Activo:   c.Activo,
	}
}
