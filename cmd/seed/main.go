// seed carga datos de demostración: usuarios (admin, staff, customer) y un
// catálogo inicial de productos deportivos. Es idempotente: si ya hay usuarios
// o productos en la base, no inserta nada.
//
// Uso: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/omnitrack-api/internal/application/auth"
	"github.com/jhoicas/omnitrack-api/internal/application/dto"
	"github.com/jhoicas/omnitrack-api/internal/application/inventory"
	"github.com/jhoicas/omnitrack-api/internal/domain/entity"
	"github.com/jhoicas/omnitrack-api/internal/infrastructure/postgres"
	"github.com/jhoicas/omnitrack-api/pkg/config"
)

type demoUser struct {
	username string
	password string
	role     string
	email    string
}

type demoProduct struct {
	name        string
	description string
	price       string
	stock       int64
	threshold   int64
}

var demoUsers = []demoUser{
	{"admin", "admin123", entity.RoleAdmin, "admin@omnitrack.com"},
	{"staff", "staff123", entity.RoleStaff, "staff@omnitrack.com"},
	{"customer", "customer123", entity.RoleCustomer, "customer@example.com"},
}

var demoProducts = []demoProduct{
	{"Running Shoes", "High-performance running shoes", "129.99", 25, 5},
	{"Basketball", "Official size basketball", "29.99", 15, 3},
	{"Tennis Racket", "Professional tennis racket", "199.99", 8, 2},
	{"Soccer Ball", "FIFA approved soccer ball", "39.99", 12, 3},
	{"Yoga Mat", "Non-slip yoga mat", "49.99", 20, 5},
	{"Dumbbells Set", "Adjustable dumbbells 5-50 lbs", "299.99", 6, 2},
	{"Sports Water Bottle", "Insulated water bottle", "19.99", 30, 10},
	{"Training T-Shirt", "Moisture-wicking athletic shirt", "24.99", 18, 5},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conectar a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := postgres.InitializeSchema(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Inicializar schema: %v\n", err)
		os.Exit(1)
	}

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	stockUC := inventory.NewStockUseCase(txRunner)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{Secret: cfg.JWT.Secret})

	existingUsers, err := userRepo.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Listar usuarios: %v\n", err)
		os.Exit(1)
	}
	if len(existingUsers) == 0 {
		for _, u := range demoUsers {
			created, err := authUC.RegisterUser(dto.RegisterRequest{
				Username: u.username,
				Password: u.password,
				Role:     u.role,
				Email:    u.email,
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "Crear usuario %s: %v\n", u.username, err)
				os.Exit(1)
			}
			fmt.Printf("Usuario creado: %s (role=%s, id=%d)\n", created.Username, created.Role, created.ID)
		}
	} else {
		fmt.Println("Usuarios ya existentes, se omite el seed de usuarios")
	}

	existingProducts, err := productRepo.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Listar productos: %v\n", err)
		os.Exit(1)
	}
	if len(existingProducts) == 0 {
		for _, p := range demoProducts {
			price, err := decimal.NewFromString(p.price)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Precio inválido %s: %v\n", p.price, err)
				os.Exit(1)
			}
			created, err := stockUC.CreateProduct(ctx, &entity.Product{
				Name:              p.name,
				Description:       p.description,
				Price:             price,
				StockQuantity:     p.stock,
				LowStockThreshold: p.threshold,
			}, nil)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Crear producto %s: %v\n", p.name, err)
				os.Exit(1)
			}
			fmt.Printf("Producto creado: %s (id=%d, stock=%d)\n", created.Name, created.ID, created.StockQuantity)
		}
	} else {
		fmt.Println("Productos ya existentes, se omite el seed de productos")
	}
}
