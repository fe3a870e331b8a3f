package main

import (
	"context"
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"splitbook/internal/config"
	"splitbook/internal/db"
	"splitbook/internal/model"
	"splitbook/internal/repository"
)

// seedUser is a demo account created by the seed script.
type seedUser struct {
	Name     string
	Email    string
	Password string
}

var seedUsers = []seedUser{
	{Name: "Asha Demo", Email: "asha@splitbook.dev", Password: "password123"},
	{Name: "Ben Demo", Email: "ben@splitbook.dev", Password: "password123"},
	{Name: "Chitra Demo", Email: "chitra@splitbook.dev", Password: "password123"},
}

var seedExpenses = []struct {
	Amount      string
	Description string
}{
	{Amount: "100.00", Description: "Taxi"},
	{Amount: "42.50", Description: "Groceries"},
	{Amount: "18.00", Description: "Coffee"},
}

func main() {
	log.Println("Starting seed script...")

	_ = godotenv.Load()
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	groupRepo := repository.NewGroupRepository(gormDB)
	expenseRepo := repository.NewExpenseRepository(gormDB)
	ctx := context.Background()

	users, created, err := seedDemoUsers(ctx, userRepo)
	if err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	log.Printf("Users ready: %d (%d newly created)", len(users), created)

	group, err := seedDemoGroup(ctx, groupRepo, users)
	if err != nil {
		log.Fatalf("Failed to seed group: %v", err)
	}
	log.Printf("Group ready: %s (%s)", group.Name, group.ID)

	added, err := seedDemoExpenses(ctx, expenseRepo, group, users)
	if err != nil {
		log.Fatalf("Failed to seed expenses: %v", err)
	}

	log.Println("Seed completed successfully!")
	log.Printf("  - Demo accounts: %d (password: password123)", len(users))
	log.Printf("  - Expenses added this run: %d", added)
}

// seedDemoUsers creates the demo accounts that do not exist yet.
func seedDemoUsers(ctx context.Context, repo repository.UserRepository) ([]model.User, int, error) {
	users := make([]model.User, 0, len(seedUsers))
	created := 0
	for _, s := range seedUsers {
		existing, err := repo.FindByEmail(ctx, s.Email)
		if err == nil {
			users = append(users, *existing)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, created, err
		}

		user := &model.User{Name: s.Name, Email: s.Email}
		if err := user.SetPassword(s.Password); err != nil {
			return nil, created, err
		}
		if err := repo.Create(ctx, user); err != nil {
			return nil, created, err
		}
		users = append(users, *user)
		created++
	}
	return users, created, nil
}

// seedDemoGroup creates the shared demo group on first run and reuses it
// afterwards. The first demo user is the admin.
func seedDemoGroup(ctx context.Context, repo repository.GroupRepository, users []model.User) (*model.Group, error) {
	admin := users[0]
	existing, err := repo.ListByMember(ctx, admin.ID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].Name == "Trip" {
			return &existing[i], nil
		}
	}

	group := &model.Group{
		Name:    "Trip",
		AdminID: admin.ID,
		Members: users,
	}
	if err := repo.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// seedDemoExpenses logs a fixed set of expenses, rotating the spender
// through the demo users.
func seedDemoExpenses(ctx context.Context, repo repository.ExpenseRepository, group *model.Group, users []model.User) (int, error) {
	added := 0
	for i, s := range seedExpenses {
		amount, err := decimal.NewFromString(s.Amount)
		if err != nil {
			return added, err
		}
		expense := &model.Expense{
			Amount:      amount,
			Description: s.Description,
			GroupID:     group.ID,
			SpentByID:   users[i%len(users)].ID,
		}
		if err := repo.Create(ctx, expense); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
