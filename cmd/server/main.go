package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/shopcore/backoffice/api"
	"github.com/shopcore/backoffice/app/cart"
	"github.com/shopcore/backoffice/app/catalog"
	"github.com/shopcore/backoffice/app/checkout"
	"github.com/shopcore/backoffice/app/discounts"
	"github.com/shopcore/backoffice/app/orders"
	"github.com/shopcore/backoffice/app/products"
	"github.com/shopcore/backoffice/app/reviews"
	"github.com/shopcore/backoffice/app/shipping"
	"github.com/shopcore/backoffice/app/wishlist"
	"github.com/shopcore/backoffice/database"
	"github.com/shopcore/backoffice/models"
	"github.com/shopcore/backoffice/notify"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Optional local overrides; production injects env directly.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	db, err := database.Connect(database.LoadConfig())
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	productsRepo := models.NewProductsRepository(db)
	cartsRepo := models.NewCartRepository(db)
	ordersRepo := models.NewOrdersRepository(db)
	discountsRepo := models.NewDiscountsRepository(db)
	shippingRepo := models.NewShippingRepository(db)
	reviewsRepo := models.NewReviewsRepository(db)
	wishlistRepo := models.NewWishlistRepository(db)

	var notifier notify.Notifier = notify.Nop{}
	if broker := os.Getenv("KAFKA_BROKER"); broker != "" {
		topic := os.Getenv("KAFKA_ORDERS_TOPIC")
		if topic == "" {
			topic = "order-confirmations"
		}
		kafkaNotifier := notify.NewKafkaNotifier(broker, topic)
		defer kafkaNotifier.Close()
		notifier = kafkaNotifier
		logger.Info("order confirmations enabled", zap.String("broker", broker), zap.String("topic", topic))
	}

	checkoutService := checkout.NewService(cartsRepo, shippingRepo, discountsRepo, ordersRepo, notifier, logger)
	cartService := cart.NewService(cartsRepo, productsRepo, discountsRepo)
	ordersService := orders.NewService(ordersRepo)

	router := api.NewRouter(logger, api.Handlers{
		Catalog:   catalog.NewCatalogHandler(productsRepo),
		Cart:      cart.NewHandler(cartService),
		Checkout:  checkout.NewHandler(checkoutService),
		Orders:    orders.NewHandler(ordersService),
		Discounts: discounts.NewDiscountHandler(discountsRepo),
		Shipping:  shipping.NewRateHandler(shippingRepo),
		Products:  products.NewHandler(productsRepo),
		Reviews:   reviews.NewHandler(reviewsRepo, productsRepo),
		Wishlist:  wishlist.NewHandler(wishlistRepo, productsRepo),
	})

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(ctx)
}
