package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/flixx/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin stores credentials the user already holds.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireStore(); err != nil {
		return err
	}

	sess, err := r.store.Login(cmd.String("token"), cmd.String("user-id"), cmd.String("username"))
	if err != nil {
		return err
	}

	r.logger.Info("session stored", "user_id", sess.UserID())
	return r.writePlain("✓ Logged in as %s\n", displayName(sess.Username(), sess.UserID()))
}

// AuthImport recovers the bearer token and user id from a copied watchlist request.
func (r *Runner) AuthImport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireStore(); err != nil {
		return err
	}

	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}

	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	var req *shared.CurlRequest
	var err error

	if curlFile != "" {
		req, err = shared.ParseCurlFile(curlFile)
		if err != nil {
			return fmt.Errorf("failed to parse cURL file: %w", err)
		}
		r.logger.Info("parsed cURL from file", "file", curlFile)
	} else {
		req, err = shared.ParseCurlCommand([]byte(curlCmd))
		if err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Info("parsed cURL command")
	}

	creds, err := req.Credentials()
	if err != nil {
		return err
	}

	if !strings.EqualFold(strings.TrimRight(creds.BaseURL, "/"), r.config.API.BaseURL) {
		r.logger.Warn("request was made against a different API", "request", creds.BaseURL, "configured", r.config.API.BaseURL)
	}

	sess, err := r.store.Login(creds.Token, creds.UserID, cmd.String("username"))
	if err != nil {
		return err
	}

	r.logger.Info("session imported", "user_id", sess.UserID())
	return r.writePlain("✓ Imported session for %s\n", displayName(sess.Username(), sess.UserID()))
}

// AuthStatus reports the stored session and, with --verify, whether the API accepts it.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireStore(); err != nil {
		return err
	}

	sess, err := r.store.Current()
	if errors.Is(err, shared.ErrNotAuthenticated) {
		return r.writePlain("✗ Not logged in\n")
	} else if err != nil {
		return err
	}

	r.writePlain("✓ Logged in as %s\n", displayName(sess.Username(), sess.UserID()))
	r.writePlain("User ID: %s\n", sess.UserID())
	r.writePlain("Since: %s\n", sess.UpdatedAt().Format("2006-01-02 15:04"))

	if !cmd.Bool("verify") {
		return nil
	}

	res, err := r.engine.Fetch(ctx, nil)
	if err != nil {
		r.logger.Error("token verification failed", "error", err)
		return r.writePlain("Token: ✗ rejected or unreachable\n")
	}
	return r.writePlain("Token: ✓ accepted (%d movies)\n", len(res.Movies))
}

// AuthLogout forgets the stored session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireStore(); err != nil {
		return err
	}

	removed, err := r.store.Logout()
	if err != nil {
		return err
	}

	if !removed {
		return r.writePlain("Not logged in\n")
	}
	r.logger.Info("session removed")
	return r.writePlain("✓ Logged out\n")
}

func displayName(username, userID string) string {
	if username != "" {
		return username
	}
	return userID
}
