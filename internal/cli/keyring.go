package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/trailpace/internal/constants"
	"github.com/julianstephens/trailpace/internal/keyring"
	"github.com/julianstephens/trailpace/internal/storage/postgres"
)

// KeyringSetCmd stores a storage connection string or the Redis password in
// the OS keyring
type KeyringSetCmd struct {
	Secret string `arg:"" help:"PostgreSQL connection string, or the Redis password with --redis."`
	Redis  bool   `help:"Store the password used with redis:// storage URLs."`
}

func (cmd *KeyringSetCmd) Run(ctx *Context) error {
	if cmd.Redis {
		if err := keyring.Set(constants.RedisKeyringUser, cmd.Secret); err != nil {
			return err
		}
		ctx.println("✓ Redis password stored successfully in OS keyring")
		return nil
	}

	if !strings.HasPrefix(cmd.Secret, "postgres://") &&
		!strings.HasPrefix(cmd.Secret, "postgresql://") &&
		!strings.Contains(cmd.Secret, "host=") {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if _, err := postgres.ValidateConnString(cmd.Secret); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		ctx.println("⚠️  Warning: Connection string contains embedded credentials.")
		ctx.println("   It will be stored as-is in the encrypted OS keyring.")
	}

	if err := keyring.SetConnectionString(cmd.Secret); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}
	ctx.println("✓ Connection string stored successfully in OS keyring")
	ctx.println("  Use it with --storage keyring")
	return nil
}

// KeyringGetCmd prints the stored connection string with its password masked
type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *Context) error {
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring. Use 'trailpace keyring set' to store one")
		}
		return fmt.Errorf("failed to retrieve connection string from keyring: %w", err)
	}

	ctx.println("Connection string retrieved from keyring:")
	ctx.println(maskPassword(connStr))
	return nil
}

// KeyringDeleteCmd removes stored credentials from the OS keyring
type KeyringDeleteCmd struct {
	Redis bool `help:"Delete the Redis password instead of the connection string."`
}

func (cmd *KeyringDeleteCmd) Run(ctx *Context) error {
	user, what := constants.DefaultKeyringUser, "Connection string"
	if cmd.Redis {
		user, what = constants.RedisKeyringUser, "Redis password"
	}
	if err := keyring.Delete(user); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("no %s found in keyring", strings.ToLower(what))
		}
		return err
	}
	ctx.printf("✓ %s deleted from OS keyring\n", what)
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *Context) error {
	if !keyring.IsAvailable() {
		ctx.println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	ctx.println("✓ OS keyring is available")

	entries := []struct {
		get  func() (string, error)
		name string
	}{
		{keyring.GetConnectionString, "Connection string"},
		{keyring.GetRedisPassword, "Redis password"},
	}
	for _, entry := range entries {
		if _, err := entry.get(); err == nil {
			ctx.printf("✓ %s is stored in keyring\n", entry.name)
		} else if errors.Is(err, keyring.ErrNotFound) {
			ctx.printf("ℹ No %s stored in keyring\n", strings.ToLower(entry.name))
		}
	}
	return nil
}

// maskPassword masks passwords in connection strings for display
func maskPassword(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		if idx := strings.Index(connStr, "://"); idx != -1 {
			remaining := connStr[idx+3:]
			// The last @ separates user info from host
			if atIdx := strings.LastIndex(remaining, "@"); atIdx != -1 {
				userInfo := remaining[:atIdx]
				if colonIdx := strings.Index(userInfo, ":"); colonIdx != -1 {
					return connStr[:idx+3] + userInfo[:colonIdx] + ":****" + connStr[idx+3+atIdx:]
				}
			}
		}
	}

	if strings.Contains(connStr, "password=") {
		parts := strings.Fields(connStr)
		for i, part := range parts {
			if strings.HasPrefix(part, "password=") {
				parts[i] = "password=****"
			}
		}
		return strings.Join(parts, " ")
	}

	return connStr
}
