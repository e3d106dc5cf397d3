package router

import (
	"time"

	"github.com/MrCorrectoMX/POSQuimo/internal/config"
	"github.com/MrCorrectoMX/POSQuimo/internal/handler"
	"github.com/MrCorrectoMX/POSQuimo/internal/middleware"
	"github.com/MrCorrectoMX/POSQuimo/internal/repository"
	"github.com/MrCorrectoMX/POSQuimo/internal/service"
	"github.com/MrCorrectoMX/POSQuimo/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, fx service.FXClient, dispatcher *worker.Dispatcher, margen decimal.Decimal) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	materiaPrimaRepo := repository.NewMateriaPrimaRepository(db)
	formulaRepo := repository.NewFormulaRepository(db)
	presentacionRepo := repository.NewPresentacionRepository(db)
	produccionRepo := repository.NewProduccionRepository(db)
	reventaRepo := repository.NewProductoReventaRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	fondoRepo := repository.NewFondoRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	configRepo := repository.NewConfiguracionRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	costeoSvc := service.NewCosteoService(productoRepo, formulaRepo, margen)
	precioSvc := service.NewPrecioService(productoRepo, presentacionRepo, formulaRepo, margen)
	catalogoSvc := service.NewCatalogoService(productoRepo, materiaPrimaRepo, reventaRepo, formulaRepo, presentacionRepo, clienteRepo, costeoSvc)
	produccionSvc := service.NewProduccionService(produccionRepo, productoRepo, materiaPrimaRepo, formulaRepo, cfg.LockTimeoutMs)
	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, reventaRepo, materiaPrimaRepo, presentacionRepo, fondoRepo, precioSvc, dispatcher, cfg.LockTimeoutMs)
	fondoSvc := service.NewFondoService(fondoRepo, cfg.LockTimeoutMs)
	compraSvc := service.NewCompraService(materiaPrimaRepo, fondoRepo, configRepo, costeoSvc, cfg.LockTimeoutMs)
	tipoCambioSvc := service.NewTipoCambioService(configRepo, fx)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	catalogoH := handler.NewCatalogoHandler(catalogoSvc)
	preciosH := handler.NewPreciosHandler(costeoSvc, precioSvc, rdb)
	produccionH := handler.NewProduccionHandler(produccionSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	fondoH := handler.NewFondoHandler(fondoSvc)
	comprasH := handler.NewComprasHandler(compraSvc)
	tipoCambioH := handler.NewTipoCambioHandler(tipoCambioSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyRol := middleware.RequireRole("vendedor", "admin")
	soloAdmin := middleware.RequireRole("admin")

	v1 := r.Group("/v1", jwtMW)
	{
		// Ventas — the counter flow, both roles
		v1.POST("/ventas", anyRol, ventasH.ProcesarVenta)
		v1.GET("/ventas", anyRol, ventasH.Listar)
		v1.POST("/ventas/corte", soloAdmin, ventasH.CorteSemanal)

		// Produccion
		v1.POST("/produccion", anyRol, produccionH.Registrar)
		v1.POST("/produccion/:id/deshacer", anyRol, produccionH.Deshacer)
		v1.GET("/produccion", anyRol, produccionH.Listar)

		// Compras
		v1.POST("/compras", soloAdmin, comprasH.Registrar)

		// Fondo
		v1.GET("/fondo/saldo", anyRol, fondoH.Saldo)
		v1.GET("/fondo/movimientos", anyRol, fondoH.Listar)
		v1.POST("/fondo/movimientos", soloAdmin, fondoH.RegistrarMovimiento)
		v1.DELETE("/fondo/movimientos/:id", soloAdmin, fondoH.EliminarMovimiento)

		// Tipo de cambio
		v1.GET("/tipo-cambio", anyRol, tipoCambioH.Obtener)
		v1.PUT("/tipo-cambio", soloAdmin, tipoCambioH.Actualizar)
		v1.GET("/tipo-cambio/sugerido", soloAdmin, tipoCambioH.Sugerido)

		// Productos manufacturados — reads for both roles, writes admin only
		v1.GET("/productos", anyRol, catalogoH.ListarProductos)
		v1.GET("/productos/:id", anyRol, catalogoH.ObtenerProducto)
		v1.GET("/productos/:id/costo", anyRol, preciosH.CostoUnitario)
		v1.GET("/productos/:id/formula", anyRol, catalogoH.ObtenerFormula)
		v1.GET("/productos/:id/presentaciones", anyRol, catalogoH.ListarPresentaciones)
		v1.GET("/productos/:id/presentaciones/:presentacionId/precio", anyRol, preciosH.PrecioPresentacion)
		prods := v1.Group("/productos", soloAdmin)
		{
			prods.POST("", catalogoH.CrearProducto)
			prods.PUT("/:id", catalogoH.ActualizarProducto)
			prods.DELETE("/:id", catalogoH.DesactivarProducto)
			prods.PATCH("/:id/reactivar", catalogoH.ReactivarProducto)
			prods.PUT("/:id/formula", catalogoH.ReemplazarFormula)
			prods.POST("/:id/presentaciones", catalogoH.CrearPresentacion)
			prods.POST("/:id/recalcular-precio", preciosH.RecalcularPrecio)
		}

		// Presentaciones updated by their own id (not nested under producto)
		v1.PUT("/presentaciones/:id", soloAdmin, catalogoH.ActualizarPresentacion)
		v1.DELETE("/presentaciones/:id", soloAdmin, catalogoH.DesactivarPresentacion)

		// Materias primas
		v1.GET("/materias-primas", anyRol, catalogoH.ListarMateriasPrimas)
		mps := v1.Group("/materias-primas", soloAdmin)
		{
			mps.POST("", catalogoH.CrearMateriaPrima)
			mps.PUT("/:id", catalogoH.ActualizarMateriaPrima)
			mps.DELETE("/:id", catalogoH.DesactivarMateriaPrima)
		}

		// Productos de reventa
		v1.GET("/reventa", anyRol, catalogoH.ListarProductosReventa)
		rev := v1.Group("/reventa", soloAdmin)
		{
			rev.POST("", catalogoH.CrearProductoReventa)
			rev.PUT("/:id", catalogoH.ActualizarProductoReventa)
			rev.DELETE("/:id", catalogoH.DesactivarProductoReventa)
		}

		// Clientes
		v1.GET("/clientes", anyRol, catalogoH.ListarClientes)
		v1.POST("/clientes", anyRol, catalogoH.CrearCliente)
		v1.DELETE("/clientes/:id", soloAdmin, catalogoH.DesactivarCliente)

		// Usuarios — admin only
		usuarios := v1.Group("/usuarios", soloAdmin)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
