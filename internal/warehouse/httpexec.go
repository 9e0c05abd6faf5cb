package warehouse

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPExecutor posts statements to the ClickHouse HTTP interface. Fallback
// for deployments without native-protocol access.
type HTTPExecutor struct {
	baseURL  string
	username string
	password string
	http     *http.Client
}

func NewHTTPExecutor(baseURL, username, password string) *HTTPExecutor {
	return &HTTPExecutor{
		baseURL:  baseURL,
		username: username,
		password: password,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (e *HTTPExecutor) Execute(ctx context.Context, statement string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL, strings.NewReader(statement))
	if err != nil {
		return err
	}
	req.SetBasicAuth(e.username, e.password)

	resp, err := e.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("warehouse http: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
