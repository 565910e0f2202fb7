package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/tenant-crm/internal/permission"
	permissionPostgres "github.com/frahmantamala/tenant-crm/internal/permission/postgres"
	"github.com/frahmantamala/tenant-crm/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	grantRole       string
	grantUser       int64
	grantPermission string
	grantRevoke     bool
)

// grantCmd edits the role-permission store directly. A running server with
// permission caching enabled sees the change once its cache expires.
var grantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Grant or revoke a permission for a role or a user",
	Example: `  tenant-crm grant --role SALES_REP --permission accounts:write
  tenant-crm grant --user 42 --permission deals:delete --revoke`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if (grantRole == "") == (grantUser == 0) {
			return errors.New("exactly one of --role or --user is required")
		}

		cfg, err := loadConfig(".")
		if err != nil {
			return err
		}
		lg := logger.Configure(cmd.ErrOrStderr(), cfg.Observability.Logging.Format, cfg.Observability.Logging.Level)

		db, err := initDB(cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		gdb, err := initGorm(db)
		if err != nil {
			return err
		}

		svc := permission.NewService(permissionPostgres.NewPermissionRepository(gdb), nil, lg)
		return runGrant(cmd.Context(), svc, cmd)
	},
}

func init() {
	grantCmd.Flags().StringVar(&grantRole, "role", "", "role name, e.g. SALES_REP")
	grantCmd.Flags().Int64Var(&grantUser, "user", 0, "user id for a per-user override")
	grantCmd.Flags().StringVarP(&grantPermission, "permission", "p", "", "permission name, e.g. accounts:write")
	grantCmd.Flags().BoolVar(&grantRevoke, "revoke", false, "store an explicit revoke instead of a grant")
	_ = grantCmd.MarkFlagRequired("permission")
}

func runGrant(ctx context.Context, svc permission.ServiceAPI, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	granted := !grantRevoke
	verb := "granted"
	if grantRevoke {
		verb = "revoked"
	}

	if grantRole != "" {
		if err := svc.SetRoleGrant(ctx, permission.SystemActor(), grantRole, grantPermission, granted); err != nil {
			return fmt.Errorf("role %s: %w", grantRole, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s for role %s\n", grantPermission, verb, grantRole)
		return nil
	}

	if err := svc.SetUserGrant(ctx, permission.SystemActor(), grantUser, grantPermission, granted); err != nil {
		return fmt.Errorf("user %d: %w", grantUser, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s for user %d\n", grantPermission, verb, grantUser)
	return nil
}
