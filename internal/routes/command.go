package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os/exec"
	"strings"

	ferrors "git.home.luguber.info/inful/sitemapper/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapper/internal/logfields"
)

// commandRoute is one row of the route table exchanged with a path map command.
type commandRoute struct {
	Path  string         `json:"path"`
	Page  string         `json:"page,omitempty"`
	Query map[string]any `json:"query,omitempty"`
}

type commandInput struct {
	Context BuildContext   `json:"context"`
	Paths   []commandRoute `json:"paths"`
}

type commandOutput struct {
	Paths []commandRoute `json:"paths"`
}

// CommandPathMap returns a PathMapFunc backed by an external program. The
// program receives {"context": ..., "paths": [...]} on stdin and must print
// {"paths": [...]} on stdout; rows keep their order.
func CommandPathMap(argv []string) PathMapFunc {
	args := append([]string(nil), argv...)
	return func(ctx context.Context, discovered *PathMap, bc BuildContext) (*PathMap, error) {
		if len(args) == 0 {
			return nil, ferrors.ConfigError("path_map_command is empty").WithContext("field", "path_map_command").Build()
		}

		input, err := json.Marshal(commandInput{Context: bc, Paths: toRows(discovered)})
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "encode path map input").Build()
		}

		var stdout, stderr bytes.Buffer
		cmd := exec.CommandContext(ctx, args[0], args[1:]...)
		cmd.Dir = bc.Dir
		cmd.Stdin = bytes.NewReader(input)
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		slog.Debug("Running path map command", slog.String("command", strings.Join(args, " ")))
		if err := cmd.Run(); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryOverride, "path map command failed").
				Fatal().
				WithContext("command", args[0]).
				WithContext("stderr", strings.TrimSpace(stderr.String())).
				Build()
		}
		if stderr.Len() > 0 {
			slog.Debug("Path map command stderr", slog.String("stderr", strings.TrimSpace(stderr.String())))
		}

		dec := json.NewDecoder(&stdout)
		dec.DisallowUnknownFields()
		var out commandOutput
		if err := dec.Decode(&out); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryOverride, "path map command printed invalid JSON").
				Fatal().
				WithContext("command", args[0]).
				Build()
		}

		pm := NewPathMap()
		for i, row := range out.Paths {
			if row.Path == "" {
				return nil, ferrors.NewError(ferrors.CategoryOverride, "path map command returned a row without path").
					Fatal().
					WithContext("index", i).
					Build()
			}
			pm.Set(row.Path, Descriptor{Page: row.Page, Query: row.Query})
		}
		slog.Debug("Path map command finished", logfields.Count(pm.Len()))
		return pm, nil
	}
}

func toRows(pm *PathMap) []commandRoute {
	rows := make([]commandRoute, 0, pm.Len())
	for _, p := range pm.Paths() {
		d, _ := pm.Get(p)
		rows = append(rows, commandRoute{Path: p, Page: d.Page, Query: d.Query})
	}
	return rows
}
