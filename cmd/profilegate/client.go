package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	profilesdto "github.com/dropDatabas3/profilegate/internal/http/dto/profiles"
)

type client struct {
	BaseURL   string
	Token     string
	OutFormat string // "json" | "text"
	HTTP      *http.Client
}

func (c *client) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.BaseURL, "/")+path, rd)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	return resp.StatusCode, b, err
}

// call ejecuta la request y falla con el {error, code} del server si no es 2xx.
func (c *client) call(cmd *cobra.Command, method, path string, body any) ([]byte, error) {
	status, b, err := c.do(cmd.Context(), method, path, body)
	if err != nil {
		return nil, err
	}
	if status/100 != 2 {
		var e struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if json.Unmarshal(b, &e) == nil && e.Code != "" {
			return nil, fmt.Errorf("%s %s: status=%d code=%s error=%s", method, path, status, e.Code, e.Error)
		}
		return nil, fmt.Errorf("%s %s: status=%d body=%s", method, path, status, strings.TrimSpace(string(b)))
	}
	return b, nil
}

func (c *client) printJSON(w io.Writer, body []byte) {
	var v any
	if json.Unmarshal(body, &v) == nil {
		p, _ := json.MarshalIndent(v, "", "  ")
		fmt.Fprintln(w, string(p))
		return
	}
	fmt.Fprintln(w, string(body))
}

func printProfileLine(w io.Writer, p map[string]any) {
	email, _ := p["email"].(string)
	role, _ := p["role"].(string)
	if role == "" {
		role = "user"
	}
	fmt.Fprintf(w, "%v\t%s\t%s\n", p["id"], role, email)
}

func addClientCommands(root *cobra.Command) {
	cl := &client{}
	var timeout time.Duration

	flags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&cl.BaseURL, "server", envOr("PROFILEGATE_URL", "http://localhost:4000"), "URL base de la API (env PROFILEGATE_URL)")
		cmd.Flags().StringVar(&cl.Token, "token", envOr("PROFILEGATE_TOKEN", ""), "Access token del usuario (env PROFILEGATE_TOKEN)")
		cmd.Flags().StringVar(&cl.OutFormat, "out", envOr("PROFILEGATE_OUT", "text"), "Formato de salida: json|text")
		cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Timeout HTTP")
	}
	pre := func(*cobra.Command, []string) error {
		if cl.Token == "" {
			return fmt.Errorf("falta token (flag --token o env PROFILEGATE_TOKEN)")
		}
		cl.HTTP = &http.Client{Timeout: timeout}
		return nil
	}

	profileCmd := &cobra.Command{
		Use:     "profile [id]",
		Short:   "Muestra el perfil propio o el de otro usuario (admin)",
		Args:    cobra.MaximumNArgs(1),
		PreRunE: pre,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/profile"
			if len(args) == 1 {
				path += "/" + url.PathEscape(args[0])
			}
			b, err := cl.call(cmd, http.MethodGet, path, nil)
			if err != nil {
				return err
			}
			if cl.OutFormat == "json" {
				cl.printJSON(cmd.OutOrStdout(), b)
				return nil
			}
			var res struct {
				Profile map[string]any `json:"profile"`
			}
			if err := json.Unmarshal(b, &res); err != nil {
				return err
			}
			printProfileLine(cmd.OutOrStdout(), res.Profile)
			return nil
		},
	}
	flags(profileCmd)

	profilesCmd := &cobra.Command{
		Use:     "profiles",
		Short:   "Lista todos los perfiles (admin)",
		Args:    cobra.NoArgs,
		PreRunE: pre,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := cl.call(cmd, http.MethodGet, "/api/profiles", nil)
			if err != nil {
				return err
			}
			if cl.OutFormat == "json" {
				cl.printJSON(cmd.OutOrStdout(), b)
				return nil
			}
			var res struct {
				Profiles []map[string]any `json:"profiles"`
			}
			if err := json.Unmarshal(b, &res); err != nil {
				return err
			}
			for _, p := range res.Profiles {
				printProfileLine(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	flags(profilesCmd)

	roleSetCmd := &cobra.Command{
		Use:     "set <id> <role>",
		Short:   "Cambia el rol de un usuario: user|admin (admin)",
		Args:    cobra.ExactArgs(2),
		PreRunE: pre,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := cl.call(cmd, http.MethodPost, "/api/role", profilesdto.SetRoleRequest{ID: args[0], Role: args[1]})
			if err != nil {
				return err
			}
			if cl.OutFormat == "json" {
				cl.printJSON(cmd.OutOrStdout(), b)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
	flags(roleSetCmd)

	roleCmd := &cobra.Command{Use: "role", Short: "Operaciones sobre roles"}
	roleCmd.AddCommand(roleSetCmd)

	root.AddCommand(profileCmd, profilesCmd, roleCmd)
}
