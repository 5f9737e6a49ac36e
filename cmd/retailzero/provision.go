package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/retailzero/brand-gateway/internal/core/domain"
	"github.com/retailzero/brand-gateway/internal/core/service"
	"github.com/retailzero/brand-gateway/internal/infrastructure/auth0mgmt"
	"github.com/retailzero/brand-gateway/internal/infrastructure/brands"
	"github.com/retailzero/brand-gateway/internal/infrastructure/config"
	"github.com/retailzero/brand-gateway/pkg/logger"
)

// exitAllFailed is returned when a run completed but not a single item succeeded.
const exitAllFailed = 2

var provisionConnection string

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Create the organizations, roles and accounts of the identity tenant.",
}

var provisionOrgsCmd = &cobra.Command{
	Use:   "orgs",
	Short: "Create one organization per brand plus the central staff organization.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProvisioning(cmd, func(ctx context.Context, cfg *config.Config, svc *service.ProvisioningService) (*domain.ProvisionReport, error) {
			return svc.EnsureOrganizations(ctx, svc.OrganizationSpecs())
		})
	},
}

var provisionRolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Ensure the admin, employee and customer roles exist.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProvisioning(cmd, func(ctx context.Context, cfg *config.Config, svc *service.ProvisioningService) (*domain.ProvisionReport, error) {
			return svc.EnsureRoles(ctx)
		})
	},
}

var (
	usersFile     string
	usersPassword string
)

var provisionUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "Create the accounts listed in a YAML file, assign their role and organization.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := loadUserSpecs(usersFile, usersPassword)
		if err != nil {
			return err
		}
		return runProvisioning(cmd, func(ctx context.Context, cfg *config.Config, svc *service.ProvisioningService) (*domain.ProvisionReport, error) {
			return svc.ProvisionUsers(ctx, users)
		})
	},
}

var (
	customersPerBrand int
	customersDomain   string
	customersPassword string
)

var provisionCustomersCmd = &cobra.Command{
	Use:   "customers",
	Short: "Create generated customer accounts for every brand.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if customersPerBrand < 1 {
			return errors.New("--per-brand must be at least 1")
		}
		if customersPassword == "" {
			return errors.New("--password is required")
		}
		return runProvisioning(cmd, func(ctx context.Context, cfg *config.Config, svc *service.ProvisioningService) (*domain.ProvisionReport, error) {
			return svc.ProvisionUsers(ctx, svc.CustomerSpecs(customersPerBrand, customersDomain, customersPassword))
		})
	},
}

var connectionsClientID string

var provisionConnectionsCmd = &cobra.Command{
	Use:   "connections",
	Short: "Enable organization login on the application and the connection on every organization.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProvisioning(cmd, func(ctx context.Context, cfg *config.Config, svc *service.ProvisioningService) (*domain.ProvisionReport, error) {
			clientID := connectionsClientID
			if clientID == "" {
				clientID = cfg.Auth0.ClientID
			}
			if clientID == "" {
				return nil, errors.New("--client-id or AUTH0_CLIENT_ID is required")
			}
			return svc.EnableConnections(ctx, clientID, svc.OrganizationSpecs())
		})
	},
}

func init() {
	provisionCmd.PersistentFlags().StringVar(&provisionConnection, "connection", service.DefaultConnection, "database connection new accounts are created in")

	provisionUsersCmd.Flags().StringVar(&usersFile, "file", "", "YAML file with the accounts to create")
	provisionUsersCmd.Flags().StringVar(&usersPassword, "password", "", "password for entries that do not set one")
	_ = provisionUsersCmd.MarkFlagRequired("file")

	provisionCustomersCmd.Flags().IntVar(&customersPerBrand, "per-brand", 3, "customers to create per brand")
	provisionCustomersCmd.Flags().StringVar(&customersDomain, "domain", "retailzero.com", "email domain of generated customers")
	provisionCustomersCmd.Flags().StringVar(&customersPassword, "password", "", "password of every generated customer")

	provisionConnectionsCmd.Flags().StringVar(&connectionsClientID, "client-id", "", "application to enable organizations on (defaults to AUTH0_CLIENT_ID)")

	provisionCmd.AddCommand(provisionOrgsCmd, provisionRolesCmd, provisionConnectionsCmd, provisionUsersCmd, provisionCustomersCmd)
}

type provisionFunc func(ctx context.Context, cfg *config.Config, svc *service.ProvisioningService) (*domain.ProvisionReport, error)

func runProvisioning(cmd *cobra.Command, run provisionFunc) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "retailzero-provision",
	})

	registry, err := brands.Load(cfg.BrandsFile)
	if err != nil {
		return err
	}
	mgmt, err := auth0mgmt.New(ctx, auth0mgmt.Config{
		Domain:       cfg.Auth0.Domain,
		Token:        cfg.Auth0.MgmtToken,
		ClientID:     cfg.Auth0.MgmtClientID,
		ClientSecret: cfg.Auth0.MgmtClientSecret,
	})
	if err != nil {
		return err
	}

	svc := service.NewProvisioningService(mgmt, registry, provisionConnection, logger.Component("provision"))
	report, err := run(ctx, cfg, svc)
	if report != nil {
		printReport(cmd.OutOrStdout(), report)
	}
	if err != nil {
		return err
	}
	if report.AllFailed() {
		return &exitError{code: exitAllFailed, err: fmt.Errorf("all %d items failed", len(report.Items))}
	}
	return nil
}

// loadUserSpecs reads a YAML list of accounts. defaultPassword fills
// entries without a password; an entry left without one is an error.
func loadUserSpecs(path, defaultPassword string) ([]domain.UserSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}
	var users []domain.UserSpec
	if err := yaml.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parse users file %s: %w", path, err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("users file %s lists no accounts", path)
	}
	for i := range users {
		if users[i].Password == "" {
			users[i].Password = defaultPassword
		}
		if users[i].Password == "" {
			return nil, fmt.Errorf("user %s has no password and --password is not set", users[i].Email)
		}
	}
	return users, nil
}

func printReport(w io.Writer, r *domain.ProvisionReport) {
	fmt.Fprintf(w, "run %s: %d created, %d updated, %d existing, %d failed\n",
		r.RunID,
		r.Count(domain.OutcomeCreated),
		r.Count(domain.OutcomeUpdated),
		r.Count(domain.OutcomeExists),
		r.Count(domain.OutcomeFailed),
	)
	for _, it := range r.Items {
		if it.Outcome == domain.OutcomeFailed {
			fmt.Fprintf(w, "  failed %s %s: %v\n", it.Kind, it.Key, it.Err)
		}
	}
}
