package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/adaptiveflow/zbdiag/internal/errors"
)

const (
	moonrakerTimeout = 5 * time.Second

	// Console messages are injected as a RESPOND G-code argument, so they
	// must stay quote-free, single-line and short.
	maxConsoleLen = 100
)

// Moonraker is the subset of the Moonraker API the hook needs: reading the
// current print state and pushing messages to the Klipper console.
type Moonraker interface {
	PrintState(ctx context.Context) (string, error)
	SendConsole(ctx context.Context, message string) error
}

type moonrakerClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewMoonrakerClient(baseURL string) Moonraker {
	return &moonrakerClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: moonrakerTimeout},
	}
}

func (c *moonrakerClient) PrintState(ctx context.Context) (string, error) {
	errFactory := errors.New()

	url := c.baseURL + "/printer/objects/query?print_stats"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errFactory.Wrap(ErrMoonrakerRequest, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errFactory.Wrap(ErrMoonrakerRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errFactory.WithData(ErrMoonrakerStatus, resp.Status)
	}

	var payload struct {
		Result struct {
			Status struct {
				PrintStats struct {
					State string `json:"state"`
				} `json:"print_stats"`
			} `json:"status"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", errFactory.Wrap(ErrMoonrakerRequest, err)
	}

	return payload.Result.Status.PrintStats.State, nil
}

func (c *moonrakerClient) SendConsole(ctx context.Context, message string) error {
	errFactory := errors.New()

	gcode := `RESPOND MSG="` + sanitizeConsole(message) + `"`
	body, err := json.Marshal(map[string]string{"script": gcode})
	if err != nil {
		return errFactory.Wrap(ErrMoonrakerRequest, err)
	}

	url := c.baseURL + "/printer/gcode/script"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errFactory.Wrap(ErrMoonrakerRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errFactory.Wrap(ErrMoonrakerRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errFactory.WithData(ErrMoonrakerStatus, resp.Status)
	}

	return nil
}

func sanitizeConsole(message string) string {
	safe := strings.ReplaceAll(message, `"`, "'")
	safe = strings.ReplaceAll(safe, "\n", " ")
	if len(safe) > maxConsoleLen {
		// Back off to a rune boundary so the cap never splits a multi-byte
		// character (report lines carry degree signs).
		cut := maxConsoleLen
		for cut > 0 && !utf8.RuneStart(safe[cut]) {
			cut--
		}
		safe = safe[:cut]
	}
	return safe
}
