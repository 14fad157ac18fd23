package server

import (
	"razorpay-storefront/internal/handler"
	appmiddleware "razorpay-storefront/internal/middleware"
	"razorpay-storefront/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo           *echo.Echo
	jwtSecret      []byte
	paymentHandler *handler.PaymentHandler
	productHandler *handler.ProductHandler
	cartHandler    *handler.CartHandler
	orderHandler   *handler.OrderHandler
}

func NewServer(
	jwtSecret string,
	paymentService service.PaymentService,
	productService service.ProductService,
	cartService service.CartService,
	checkoutService service.CheckoutService,
) *Server {
	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:           e,
		jwtSecret:      []byte(jwtSecret),
		paymentHandler: handler.NewPaymentHandler(paymentService),
		productHandler: handler.NewProductHandler(productService),
		cartHandler:    handler.NewCartHandler(cartService),
		orderHandler:   handler.NewOrderHandler(checkoutService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	e := s.echo

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- catalog --------
	e.GET("/products", s.productHandler.ListProducts)
	e.GET("/products/:productID", s.productHandler.GetProduct)

	admin := e.Group("/admin/products", appmiddleware.JWTAuth(s.jwtSecret), appmiddleware.RequireAdmin())
	admin.POST("", s.productHandler.CreateProduct)
	admin.PUT("/:productID", s.productHandler.UpdateProduct)
	admin.DELETE("/:productID", s.productHandler.DeleteProduct)

	// -------- cart / checkout --------
	authed := e.Group("", appmiddleware.JWTAuth(s.jwtSecret))
	authed.GET("/cart", s.cartHandler.GetCart)
	authed.POST("/cart/items", s.cartHandler.AddItem)
	authed.PUT("/cart/items/:productID", s.cartHandler.UpdateItem)
	authed.DELETE("/cart/items/:productID", s.cartHandler.RemoveItem)

	authed.POST("/checkout", s.orderHandler.Checkout)
	authed.GET("/orders", s.orderHandler.ListOrders)
	authed.GET("/orders/:orderID", s.orderHandler.GetOrder)

	// -------- razorpay --------
	payments := e.Group("/payments")
	payments.POST("/create-order", s.paymentHandler.CreateOrder)
	payments.POST("/verify", s.paymentHandler.VerifyPayment)
	payments.GET("/:paymentId", s.paymentHandler.GetPayment)

	// -------- razorpay webhooks --------
	payments.POST("/webhook", s.paymentHandler.Webhook)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
