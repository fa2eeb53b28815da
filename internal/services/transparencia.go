// internal/services/transparencia.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aetflow/aet-backend/internal/config"
)

// TransparenciaClient queries the Portal da Transparência open-data
// API to confirm that a transporter CNPJ exists and fetch its
// registered names.
type TransparenciaClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// CNPJInfo is the subset of the API response the service uses.
type CNPJInfo struct {
	CNPJ         string `json:"cnpj"`
	Name         string `json:"nome"`
	TradeName    string `json:"nomeFantasiaReceita"`
	OpeningDate  string `json:"dataAbertura"`
	LegalNature  string `json:"naturezaJuridica"`
	Municipality string `json:"municipio"`
	State        string `json:"uf"`
}

func NewTransparenciaClient(cfg config.TransparenciaConfig) *TransparenciaClient {
	return &TransparenciaClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether an API key is configured. Without one the
// lookup is skipped and CNPJs are accepted on check digits alone.
func (c *TransparenciaClient) Enabled() bool {
	return c.apiKey != ""
}

// Lookup fetches company data for a bare-digit CNPJ. One retry on
// transport failure, then the error goes back to the caller.
func (c *TransparenciaClient) Lookup(ctx context.Context, cnpj string) (*CNPJInfo, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		info, err := c.lookupOnce(ctx, cnpj)
		if err == nil {
			return info, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		logrus.WithError(err).WithField("cnpj", cnpj).Warn("CNPJ lookup failed, retrying")
	}
	return nil, lastErr
}

func (c *TransparenciaClient) lookupOnce(ctx context.Context, cnpj string) (*CNPJInfo, error) {
	url := fmt.Sprintf("%s/cnpj?cnpj=%s", c.baseURL, cnpj)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build CNPJ request: %w", err)
	}
	req.Header.Set("chave-api-dados", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("CNPJ request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("CNPJ %s not found", cnpj)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("CNPJ API returned status %d: %s", resp.StatusCode, string(body))
	}

	// The API answers with a list even for a single CNPJ.
	var results []CNPJInfo
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode CNPJ response: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("CNPJ %s not found", cnpj)
	}

	return &results[0], nil
}
