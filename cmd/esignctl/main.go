// esignctl is a small command line client for the e-signature service API.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	addr     string
	userID   string
	userName string
)

func main() {
	root := &cobra.Command{
		Use:   "esignctl",
		Short: "Client for the eSignature workflow service",
	}
	root.PersistentFlags().StringVar(&addr, "addr", "http://localhost:8080", "Service base URL")
	root.PersistentFlags().StringVar(&userID, "user", "user_1", "Acting user id")
	root.PersistentFlags().StringVar(&userName, "name", "Current User", "Acting user display name")

	root.AddCommand(templatesCmd(), documentsCmd(), signersCmd(),
		sendCmd(), signCmd(), declineCmd(), cancelCmd(), auditCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func templatesCmd() *cobra.Command {
	var industry, useCase string
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List templates for an industry",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/templates?industry=" + industry
			if useCase != "" {
				path += "&useCase=" + useCase
			}
			return call(http.MethodGet, path, nil)
		},
	}
	cmd.Flags().StringVar(&industry, "industry", "", "Industry id (required)")
	cmd.Flags().StringVar(&useCase, "use-case", "", "Use case id")
	cmd.MarkFlagRequired("industry")
	return cmd
}

func documentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "documents",
		Short: "Manage documents",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodGet, "/api/v1/documents", nil)
		},
	}

	var templateID, title, mode string
	var fields []string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a draft document from a template",
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make(map[string]any, len(fields))
			for _, f := range fields {
				k, v, ok := strings.Cut(f, "=")
				if !ok {
					return fmt.Errorf("invalid field %q, expected key=value", f)
				}
				// numbers and booleans parse as JSON, everything else is a string
				var parsed any
				if err := json.Unmarshal([]byte(v), &parsed); err == nil {
					values[k] = parsed
				} else {
					values[k] = v
				}
			}
			return call(http.MethodPost, "/api/v1/documents", map[string]any{
				"template_id":  templateID,
				"title":        title,
				"fields":       values,
				"signing_mode": mode,
			})
		},
	}
	create.Flags().StringVar(&templateID, "template", "", "Template id (required)")
	create.Flags().StringVar(&title, "title", "", "Document title (required)")
	create.Flags().StringVar(&mode, "mode", "sequential", "Signing mode: sequential or parallel")
	create.Flags().StringArrayVar(&fields, "field", nil, "Field value as id=value (repeatable)")
	create.MarkFlagRequired("template")
	create.MarkFlagRequired("title")

	show := &cobra.Command{
		Use:   "show DOCUMENT_ID",
		Short: "Show one document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodGet, "/api/v1/documents/"+args[0], nil)
		},
	}

	cmd.AddCommand(list, create, show)
	return cmd
}

func signersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signers",
		Short: "Manage a document's signers",
	}

	var name, email, role string
	add := &cobra.Command{
		Use:   "add DOCUMENT_ID",
		Short: "Add a signer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodPost, "/api/v1/documents/"+args[0]+"/signers", map[string]any{
				"name":  name,
				"email": email,
				"role":  role,
			})
		},
	}
	add.Flags().StringVar(&name, "name", "", "Signer name (required)")
	add.Flags().StringVar(&email, "email", "", "Signer email (required)")
	add.Flags().StringVar(&role, "role", "", "Signer role/title")
	add.MarkFlagRequired("name")
	add.MarkFlagRequired("email")

	rm := &cobra.Command{
		Use:   "rm DOCUMENT_ID SIGNER_ID",
		Short: "Remove a signer that has not signed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodDelete, "/api/v1/documents/"+args[0]+"/signers/"+args[1], nil)
		},
	}

	cmd.AddCommand(add, rm)
	return cmd
}

func sendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send DOCUMENT_ID",
		Short: "Send a draft document to its signers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodPost, "/api/v1/documents/"+args[0]+"/send", map[string]any{})
		},
	}
}

func signCmd() *cobra.Command {
	var signature string
	cmd := &cobra.Command{
		Use:   "sign DOCUMENT_ID SIGNER_ID",
		Short: "Record a signature",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodPost, "/api/v1/documents/"+args[0]+"/sign", map[string]any{
				"signer_id": args[1],
				"signature": signature,
			})
		},
	}
	cmd.Flags().StringVar(&signature, "signature", "", "Opaque signature proof")
	return cmd
}

func declineCmd() *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "decline DOCUMENT_ID SIGNER_ID",
		Short: "Record a decline",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodPost, "/api/v1/documents/"+args[0]+"/decline", map[string]any{
				"signer_id": args[1],
				"reason":    reason,
			})
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "Reason for declining")
	return cmd
}

func cancelCmd() *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "cancel DOCUMENT_ID",
		Short: "Cancel a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodPost, "/api/v1/documents/"+args[0]+"/cancel", map[string]any{
				"reason": reason,
			})
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "Reason for cancelling")
	return cmd
}

func auditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit DOCUMENT_ID",
		Short: "Show a document's audit trail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(http.MethodGet, "/api/v1/documents/"+args[0]+"/audit", nil)
		},
	}
}

// call performs one JSON request against the service and pretty-prints the
// response body.
func call(method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, addr+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", userID)
	req.Header.Set("X-User-Name", userName)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err != nil {
		pretty.Write(data)
	}
	fmt.Println(pretty.String())

	if resp.StatusCode >= 400 {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	return nil
}
