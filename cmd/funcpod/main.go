package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"golang.org/x/net/context"

	"github.com/funcpod/funcpod/internal/api"
	"github.com/funcpod/funcpod/internal/cache"
	"github.com/funcpod/funcpod/internal/config"
	"github.com/funcpod/funcpod/internal/container"
	"github.com/funcpod/funcpod/internal/manager"
	"github.com/funcpod/funcpod/internal/metrics"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func startAPIServer(e *echo.Echo, server *api.Server) {
	e.Use(middleware.Recover())

	// Routes
	e.POST("/invoke/:workload", server.InvokeWorkload)
	e.POST("/prewarm", server.PrewarmWorkload)
	e.POST("/create", server.CreateWorkload)
	e.POST("/delete/:workload", server.DeleteWorkload)
	e.GET("/workload", server.GetWorkloads)
	e.GET("/status", server.GetServerStatus)

	// Start server
	portNumber := config.GetInt(config.API_PORT, 1323)
	e.HideBanner = true

	if err := e.Start(fmt.Sprintf(":%d", portNumber)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		e.Logger.Fatal("shutting down the server")
	}
}

func registrySetup() {
	// setup cache space
	cache.Size = config.GetInt(config.REGISTRY_CACHE_SIZE, 100)

	//setup cleanup interval
	d := config.GetInt(config.REGISTRY_CACHE_CLEANUP, 60)
	interval := time.Duration(d)
	cache.CleanupInterval = interval * time.Second

	//setup default expiration time
	d = config.GetInt(config.REGISTRY_CACHE_EXPIRATION, 60)
	expirationInterval := time.Duration(d)
	cache.DefaultExp = expirationInterval * time.Second

	//cache first creation
	cache.GetCacheInstance()
}

func createContainerFactory() container.Factory {
	backend := config.GetString(config.CONTAINER_FACTORY, "docker")
	log.Printf("Configured container factory: %s\n", backend)
	if backend == "podman" {
		return container.InitPodmanContainerFactory()
	}
	return container.InitDockerContainerFactory()
}

func registerTerminationHandler(mgr *manager.ContainerManager, e *echo.Echo) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	go func() {
		select {
		case sig := <-c:
			fmt.Printf("Got %s signal. Terminating...\n", sig)
			mgr.Shutdown()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := e.Shutdown(ctx); err != nil {
				e.Logger.Fatal(err)
			}

			os.Exit(0)
		}
	}()
}

func main() {
	configFileName := ""
	if len(os.Args) > 1 {
		configFileName = os.Args[1]
	}
	config.ReadConfiguration(configFileName)

	//setting up the workload registry
	registrySetup()

	factory := createContainerFactory()
	if err := factory.Ping(); err != nil {
		log.Fatalf("Container runtime is not reachable: %v", err)
	}

	mgr := manager.NewContainerManager(factory)

	go metrics.Init()

	e := echo.New()

	// Register a signal handler to cleanup things on termination
	registerTerminationHandler(mgr, e)

	startAPIServer(e, api.NewServer(mgr))
}
