package app

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/auth"
)

func init() { //nolint: gochecknoinits
	userAddCmd.Flags().StringVar(&userEmail, "email", "", "email address")
	userAddCmd.Flags().StringVar(&userFullname, "fullname", "", "full name")
	userAddCmd.Flags().StringVar(&userPassword, "password", "", "password (required)")
	userAddCmd.Flags().StringVar(&userRole, "role", auth.RoleUser, "role: admin or user")
	userAddCmd.Flags().BoolVar(&userTOTP, "totp", false, "enable a TOTP second factor and print its otpauth URL")
	_ = userAddCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userAddCmd)
	rootCmd.AddCommand(userCmd)
}

var (
	userEmail    string
	userFullname string
	userPassword string
	userRole     string
	userTOTP     bool

	userCmd = &cobra.Command{
		Use:   "user",
		Short: "Manage local users",
	}

	userAddCmd = &cobra.Command{
		Use:   "add <username>",
		Short: "Create a local user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, database, err := setup()
			if err != nil {
				return err
			}

			if err = auth.SeedRoles(database); err != nil {
				return err
			}

			return addUser(cmd.OutOrStdout(), database, newUser{
				Username: args[0],
				Email:    userEmail,
				Fullname: userFullname,
				Password: userPassword,
				Role:     userRole,
				TOTP:     userTOTP,
				Issuer:   c.Title,
			})
		},
	}
)

type newUser struct {
	Username string
	Email    string
	Fullname string
	Password string
	Role     string
	TOTP     bool
	Issuer   string
}

func addUser(w io.Writer, database *gorm.DB, u newUser) error {
	role, err := auth.NewService(database).RoleByName(u.Role)
	if err != nil {
		return err
	}

	local := auth.NewLocalProvider(database)

	user, err := local.CreateUser(u.Username, u.Email, u.Password, u.Fullname, role.ID)
	if err != nil {
		return err
	}

	if _, err = fmt.Fprintf(w, "user %s created with id %d and role %s\n", user.Username, user.ID, role.Name); err != nil {
		return err
	}

	if !u.TOTP {
		return nil
	}

	key, err := local.EnableTOTP(user.ID, u.Issuer)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "totp: %s\n", key.URL())

	return err
}
