package transport

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/richard-senior/gamecomp/internal/logger"
)

// CABundleEnv names an extra PEM bundle to trust, corporate proxies that
// re-sign TLS traffic need this
const CABundleEnv = "GAMECOMP_CA_BUNDLE"

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

var (
	clientMu   sync.Mutex
	httpClient *http.Client
)

// caBundlePath is the extra CA bundle, GAMECOMP_CA_BUNDLE wins over the
// usual Zscaler location
func caBundlePath() string {
	if p := os.Getenv(CABundleEnv); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".ssh/zscaler_ca_bundle.pem")
}

// GetCustomHTTPClient returns the shared client, trusting the system roots
// plus the extra CA bundle when one can be read
func GetCustomHTTPClient() *http.Client {
	clientMu.Lock()
	defer clientMu.Unlock()
	if httpClient != nil {
		return httpClient
	}

	rootCAs, err := x509.SystemCertPool()
	if err != nil {
		logger.Warn("Failed to get system cert pool", err)
		rootCAs = x509.NewCertPool()
	}
	if pem, err := os.ReadFile(caBundlePath()); err != nil {
		logger.Debug("No extra CA bundle:", err)
	} else if ok := rootCAs.AppendCertsFromPEM(pem); !ok {
		logger.Warn("Failed to append CA bundle", caBundlePath())
	} else {
		logger.Info("Added CA bundle to root CAs")
	}

	httpClient = &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{RootCAs: rootCAs},
			Proxy:           http.ProxyFromEnvironment,
		},
		Timeout: 30 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return fmt.Errorf("stopped after 10 redirects")
			}
			return nil
		},
	}
	return httpClient
}

// Fetch downloads a season export, decoding any Content-Encoding the server
// applied. It returns the body and its content type.
func Fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/csv,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet,text/html;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := GetCustomHTTPClient().Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("request for %s returned error status %d", url, resp.StatusCode)
	}

	reader, err := Decode(resp.Header.Get("Content-Encoding"), resp.Body)
	if err != nil {
		return nil, "", err
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read data: %w", err)
	}
	logger.Debug("Fetched", len(data), "bytes from", url)
	return data, resp.Header.Get("Content-Type"), nil
}

// Decode wraps r in a reader undoing the named content encoding. Unknown
// encodings are passed through untouched.
func Decode(encoding string, r io.ReadCloser) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return zr, nil
	case "deflate":
		return flate.NewReader(r), nil
	case "br":
		return io.NopCloser(brotli.NewReader(r)), nil
	case "", "identity":
		return r, nil
	default:
		logger.Warn("Unknown content encoding:", encoding)
		return r, nil
	}
}
