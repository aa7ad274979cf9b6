package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"products-mcp-server/internal/application"
	"products-mcp-server/internal/domain"
	"products-mcp-server/internal/infrastructure"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "products-mcp-server",
	Short: "MCP server bridging assistant tool calls to a products REST backend",
	Long: `products-mcp-server exposes product catalog management tools (add, delete,
update, list, search) over the Model Context Protocol. Each tool call is
translated into a single HTTP request against the configured products
backend and the outcome is returned as a normalized result.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(configPath)
	},
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Print the exposed tool definitions as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Tool schemas do not need a live backend; the configuration is only
		// consulted for the default list limit.
		limit := 0
		if config, err := domain.LoadConfig(configPath); err == nil {
			limit = config.Limits.DefaultList
		}

		handler := application.NewProductHandler(nil, limit)
		dispatcher := application.NewDispatcher(domain.NewResponseMapper(), handler)

		output, err := json.MarshalIndent(dispatcher.ListAllTools(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal tool definitions: %w", err)
		}

		fmt.Println(string(output))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the server version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n", application.ServerName, application.ServerVersion)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to configuration file")
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	// A .env file is optional; ignore a missing one
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(configPath string) error {
	// Load configuration
	log.Printf("Loading configuration from: %s", configPath)
	config, err := domain.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log.Println("Configuration loaded successfully")

	// The backend HTTP client carries the timeout and credentials for every call
	httpClient, err := domain.NewBackendClient(&config.Backend)
	if err != nil {
		return fmt.Errorf("failed to create backend client: %w", err)
	}

	productClient := infrastructure.NewProductClient(
		config.Backend.BaseURL, httpClient, config.Backend.RateLimit, config.Backend.Burst)
	log.Printf("Products backend client initialized for %s", productClient.BaseURL())

	// Create response mapper and register handlers
	mapper := domain.NewResponseMapper()
	productHandler := application.NewProductHandler(productClient, config.Limits.DefaultList)

	dispatcher := application.NewDispatcher(mapper, productHandler)
	log.Printf("Dispatcher initialized with %d tool(s)", len(dispatcher.ListAllTools()))

	// Create transport based on configuration
	var transport domain.Transport
	switch config.Transport.Type {
	case "stdio":
		log.Println("Initializing stdio transport")
		transport = domain.NewStdioTransport()
	case "http":
		log.Printf("Initializing HTTP transport on %s:%d", config.Transport.HTTP.Host, config.Transport.HTTP.Port)
		transport = domain.NewHTTPTransport(config.Transport.HTTP.Host, config.Transport.HTTP.Port)
	default:
		return fmt.Errorf("invalid transport type: %s", config.Transport.Type)
	}

	// Create server with all dependencies
	server := application.NewServer(transport, dispatcher, mapper, config)
	log.Println("MCP server created")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in a goroutine
	errChan := make(chan error, 1)
	go func() {
		log.Println("Starting MCP server...")
		if err := server.Start(ctx); err != nil {
			errChan <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	// Log successful startup
	if config.Transport.Type == "stdio" {
		log.Println("MCP server started successfully (stdio transport)")
	} else {
		log.Printf("MCP server started successfully (HTTP transport on %s:%d)",
			config.Transport.HTTP.Host, config.Transport.HTTP.Port)
	}

	// Wait for shutdown signal or error
	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
		log.Println("Initiating graceful shutdown...")
		cancel()
	case err := <-errChan:
		log.Printf("Server error: %v", err)
		cancel()
		if closeErr := server.Close(); closeErr != nil {
			log.Printf("Error closing server: %v", closeErr)
		}
		return err
	}

	// Close the server
	log.Println("Closing server...")
	if err := server.Close(); err != nil {
		return fmt.Errorf("error during server shutdown: %w", err)
	}

	log.Println("Server shutdown complete")
	return nil
}
