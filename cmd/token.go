package cmd

import (
	"fmt"

	internalApp "github.com/haierkeys/chrono-journal-service/internal/app"
	"github.com/haierkeys/chrono-journal-service/pkg/app"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type tokenFlags struct {
	config string
	uid    string
	ip     string
	expiry string
}

// mintToken 使用配置中的密钥签发 Token，expiry 非空时覆盖配置的过期时间
func mintToken(f *tokenFlags) (string, error) {
	if f.uid == "" {
		return "", errors.New("--uid is required")
	}
	configPath, err := resolveConfigPath(f.config)
	if err != nil {
		return "", err
	}
	cfg, _, err := internalApp.LoadConfig(configPath)
	if err != nil {
		return "", err
	}
	if f.expiry != "" {
		cfg.Security.TokenExpiry = f.expiry
		if err := cfg.Validate(); err != nil {
			return "", err
		}
	}

	tm := app.NewTokenManager(app.TokenConfig{
		SecretKey: cfg.Security.AuthTokenKey,
		Expiry:    cfg.GetTokenExpiry(),
		Issuer:    cfg.Security.TokenIssuer,
	})
	return tm.Generate(f.uid, f.ip)
}

func init() {
	flags := new(tokenFlags)

	tokenCmd := &cobra.Command{
		Use:   "token --uid owner_id [-c config_file]",
		Short: "Mint a bearer token for local use. // 签发本地使用的 Token。",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := mintToken(flags)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	rootCmd.AddCommand(tokenCmd)
	fs := tokenCmd.Flags()
	fs.StringVarP(&flags.config, "config", "c", "", "config file")
	fs.StringVarP(&flags.uid, "uid", "u", "", "owner id written to the sub claim")
	fs.StringVar(&flags.ip, "ip", "", "client ip claim")
	fs.StringVar(&flags.expiry, "expiry", "", "token lifetime, e.g. 7d, 24h")
}
