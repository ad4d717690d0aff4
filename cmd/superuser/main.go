package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	identityapp "github.com/commerce/backend/internal/application/identity"
	"github.com/commerce/backend/internal/infrastructure/config"
	"github.com/commerce/backend/internal/infrastructure/event"
	"github.com/commerce/backend/internal/infrastructure/logger"
	"github.com/commerce/backend/internal/infrastructure/persistence"
)

func main() {
	username := flag.String("username", "", "superuser username (prompted if empty)")
	email := flag.String("email", "", "superuser email (prompted if empty)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  "warn",
		Format: cfg.Log.Format,
		Output: "stderr",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	reader := bufio.NewReader(os.Stdin)
	name := strings.TrimSpace(*username)
	if name == "" {
		name = prompt(reader, "Username: ")
	}
	addr := strings.TrimSpace(*email)
	if addr == "" {
		addr = prompt(reader, "Email: ")
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		log.Fatal("Failed to read password", zap.Error(err))
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		log.Fatal("Failed to read password", zap.Error(err))
	}
	if password != confirm {
		fmt.Fprintln(os.Stderr, "Passwords do not match")
		os.Exit(1)
	}

	userService := identityapp.NewUserService(
		persistence.NewGormUserRepository(db.DB),
		event.NewInMemoryEventBus(log),
		log,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, err := userService.Create(ctx, identityapp.CreateUserInput{
		Username:    name,
		Email:       addr,
		Password:    password,
		IsSuperuser: true,
	})
	if err != nil {
		log.Fatal("Failed to create superuser", zap.Error(err))
	}

	fmt.Printf("Superuser %s (%s) created\n", user.Username, user.ID)
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func promptPassword(label string) (string, error) {
	fmt.Print(label)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
