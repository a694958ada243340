package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/flixx/internal/session"
	"github.com/desertthunder/flixx/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct, authenticated GET request against the configured API.
//
// {userId} in the path is replaced with the stored user id.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path is required", shared.ErrMissingArgument)
	}
	if r.api == nil {
		return fmt.Errorf("%w: API service not initialized", shared.ErrServiceUnavailable)
	}

	creds, err := session.Resolve(r.provider())
	if err != nil {
		return err
	}
	path = strings.ReplaceAll(path, "{userId}", creds.UserID)

	r.logger.Info("GET request", "path", path)

	resp, err := r.api.Get(ctx, path, creds.Token)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if !resp.OK() {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, cmd.Bool("pretty"))
	}

	return r.writePlain("%s\n", resp.Body)
}
