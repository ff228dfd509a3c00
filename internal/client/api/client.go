// Package api is the HTTP client for the SignDesk server used by signctl.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/signdesk/signdesk/internal/blobcodec"
	"github.com/signdesk/signdesk/internal/client/config"
	"github.com/signdesk/signdesk/internal/models"
)

// Error is a failed API call: the HTTP status plus the server's message.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

type Client struct {
	base  string
	http  *http.Client
	token string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		base: strings.TrimRight(cfg.ServerEndpointAddr, "/"),
		http: &http.Client{Timeout: cfg.RequestTimeout},
	}
}

// Token returns the current access token, empty when logged out.
func (c *Client) Token() string { return c.token }

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &Error{Status: resp.StatusCode, Message: e.Error}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Login authenticates and remembers the access token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var resp struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login",
		map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return err
	}
	c.token = resp.Token
	return nil
}

// Logout revokes the token server-side and forgets it locally.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil)
	c.token = ""
	return err
}

func (c *Client) Register(ctx context.Context, name, email, password string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/register",
		map[string]string{"name": name, "email": email, "password": password}, nil)
}

func (c *Client) ListDocuments(ctx context.Context) ([]models.Document, error) {
	var docs []models.Document
	if err := c.do(ctx, http.MethodGet, "/api/v1/documents", nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *Client) GetDocument(ctx context.Context, id string) (models.Document, error) {
	var doc models.Document
	if err := c.do(ctx, http.MethodGet, "/api/v1/documents/"+id, nil, &doc); err != nil {
		return models.Document{}, err
	}
	return doc, nil
}

// UploadDocument sends a new document. Attachments travel in their transport
// encoding.
func (c *Client) UploadDocument(ctx context.Context, title, docType string, signerEmails []string, files []models.Attachment) (models.Document, error) {
	type signerReq struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	req := struct {
		Title   string              `json:"title"`
		Type    string              `json:"type"`
		Signers []signerReq         `json:"signers"`
		Files   []blobcodec.Encoded `json:"files"`
	}{Title: title, Type: docType}
	for _, e := range signerEmails {
		req.Signers = append(req.Signers, signerReq{Email: e, Role: "signer"})
	}
	for _, f := range files {
		req.Files = append(req.Files, blobcodec.Encode(f))
	}

	var doc models.Document
	if err := c.do(ctx, http.MethodPost, "/api/v1/documents", req, &doc); err != nil {
		return models.Document{}, err
	}
	return doc, nil
}

func (c *Client) ShareDocument(ctx context.Context, id, email string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/documents/"+id+"/share",
		map[string]string{"email": email}, nil)
}

func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/documents/"+id, nil, nil)
}

// RequestChallenge starts an identity-method signing flow.
func (c *Client) RequestChallenge(ctx context.Context, id, method, idNumber string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/documents/"+id+"/sign/challenge",
		map[string]string{"method": method, "id_number": idNumber}, nil)
}

// SignRequest carries one commit step for any of the capture methods.
type SignRequest struct {
	Method string `json:"method"`
	Image  string `json:"image,omitempty"`
	Name   string `json:"name,omitempty"`
	Style  string `json:"style,omitempty"`
	Code   string `json:"code,omitempty"`
}

func (c *Client) Sign(ctx context.Context, id string, req SignRequest) (models.Document, error) {
	var doc models.Document
	if err := c.do(ctx, http.MethodPost, "/api/v1/documents/"+id+"/sign", req, &doc); err != nil {
		return models.Document{}, err
	}
	return doc, nil
}
