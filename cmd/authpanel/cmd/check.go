package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nfrund/authpanel/internal/authform"
)

var checkInput struct {
	mode            string
	firstName       string
	lastName        string
	email           string
	password        string
	confirmPassword string
	terms           bool
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate one form from flags and print its errors as JSON",
	Long: `Validate the input of one form and print the resulting error set as a
JSON object keyed by field name. The command fails when the set is not
empty.

Examples:
  authpanel check --email a@b.com --password x
  authpanel check --mode register --email a@b.com --password short --confirm-password other
  authpanel check --mode reset --email not-an-email`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	mode, err := authform.ParseMode(checkInput.mode)
	if err != nil {
		return err
	}

	state, err := authform.Initial().SwitchMode(mode)
	if err != nil {
		return err
	}
	values := map[authform.Field]string{
		authform.FieldFirstName:       checkInput.firstName,
		authform.FieldLastName:        checkInput.lastName,
		authform.FieldEmail:           checkInput.email,
		authform.FieldPassword:        checkInput.password,
		authform.FieldConfirmPassword: checkInput.confirmPassword,
	}
	for _, f := range mode.Fields() {
		if state, err = state.EditField(f, values[f]); err != nil {
			return err
		}
	}
	if mode == authform.ModeRegister {
		if state, err = state.SetTerms(checkInput.terms); err != nil {
			return err
		}
	}

	errs := authform.NewValidator().Validate(state)
	if errs == nil {
		errs = authform.ErrorSet{}
	}
	out, err := json.MarshalIndent(errs, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if !errs.Empty() {
		return fmt.Errorf("%s form has %d error(s)", mode, len(errs))
	}
	return nil
}

func init() {
	flags := checkCmd.Flags()
	flags.StringVar(&checkInput.mode, "mode", "signin", "form to validate: signin, register or reset")
	flags.StringVar(&checkInput.firstName, "first-name", "", "first name (register)")
	flags.StringVar(&checkInput.lastName, "last-name", "", "last name (register)")
	flags.StringVar(&checkInput.email, "email", "", "email address")
	flags.StringVar(&checkInput.password, "password", "", "password (signin, register)")
	flags.StringVar(&checkInput.confirmPassword, "confirm-password", "", "password confirmation (register)")
	flags.BoolVar(&checkInput.terms, "terms", false, "accept the terms of service (register)")
	rootCmd.AddCommand(checkCmd)
}
