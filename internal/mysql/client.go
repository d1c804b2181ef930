package mysql

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/wpstack/wpstack/internal/parse"
	"github.com/wpstack/wpstack/internal/shell"
)

var databaseNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,64}$`)

// ValidDatabaseName reports whether name is safe to interpolate as an identifier.
func ValidDatabaseName(name string) bool {
	return databaseNamePattern.MatchString(name)
}

// Client runs SQL through the mysql binary against a probed connection.
type Client struct {
	Runner     shell.Runner
	Binary     string
	User       string
	Password   string
	Connection string
}

func (c *Client) args(database string, sql string) []string {
	args := []string{"-u", c.User}
	if c.Password != "" {
		args = append(args, "--password="+c.Password)
	}
	args = append(args, ConnectionArgs(c.Connection)...)
	args = append(args, "-N", "-B", "-e", sql)
	if database != "" {
		args = append(args, database)
	}
	return args
}

// Exec runs sql, optionally against database, and returns stdout.
func (c *Client) Exec(ctx context.Context, database string, sql string) (string, error) {
	binary := c.Binary
	if strings.TrimSpace(binary) == "" {
		binary = DefaultBinary
	}
	res, err := c.Runner.Run(ctx, binary, c.args(database, sql), shell.Options{})
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

// CreateDatabase creates name if it does not already exist.
func (c *Client) CreateDatabase(ctx context.Context, name string) error {
	if !ValidDatabaseName(name) {
		return fmt.Errorf("invalid database name %q", name)
	}
	if _, err := c.Exec(ctx, "", fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", name)); err != nil {
		return fmt.Errorf("create database %s: %w", name, err)
	}
	return nil
}

// DropDatabase removes name if it exists.
func (c *Client) DropDatabase(ctx context.Context, name string) error {
	if !ValidDatabaseName(name) {
		return fmt.Errorf("invalid database name %q", name)
	}
	if _, err := c.Exec(ctx, "", fmt.Sprintf("DROP DATABASE IF EXISTS `%s`", name)); err != nil {
		return fmt.Errorf("drop database %s: %w", name, err)
	}
	return nil
}

// DatabaseExists reports whether name is visible to the user.
func (c *Client) DatabaseExists(ctx context.Context, name string) (bool, error) {
	if !ValidDatabaseName(name) {
		return false, fmt.Errorf("invalid database name %q", name)
	}
	out, err := c.Exec(ctx, "", fmt.Sprintf("SHOW DATABASES LIKE '%s'", name))
	if err != nil {
		return false, fmt.Errorf("list databases: %w", err)
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == name {
			return true, nil
		}
	}
	return false, nil
}

// TableCount returns the number of tables in database.
func (c *Client) TableCount(ctx context.Context, database string) (int, error) {
	if !ValidDatabaseName(database) {
		return 0, fmt.Errorf("invalid database name %q", database)
	}
	out, err := c.Exec(ctx, database, "SHOW TABLES")
	if err != nil {
		return 0, fmt.Errorf("list tables in %s: %w", database, err)
	}
	return parse.CountTables(out), nil
}
