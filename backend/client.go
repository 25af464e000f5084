// Package backend talks to the remote catalog API that owns categories and products.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/raushankrgupta/merchant-dashboard/models"
)

// maxErrorBody caps how much of a failed response is kept for logging
const maxErrorBody = 1 << 10

// StatusError is returned when the backend answers with a non-2xx status
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// Client calls the catalog backend rooted at BaseURL
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a Client for baseURL with the given request timeout (0 disables it)
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend url %q must be http or https", baseURL)
	}
	return &Client{
		BaseURL: strings.TrimRight(u.String(), "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 16,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}, nil
}

// ListCategories fetches every category
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.getJSON(ctx, "/categories", &categories); err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

// CreateCategory posts a new category name
func (c *Client) CreateCategory(ctx context.Context, name string) error {
	body, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return fmt.Errorf("marshal category: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/categories"), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, nil)
}

// ListProducts fetches the products of one category
func (c *Client) ListProducts(ctx context.Context, categoryID string) ([]models.ProductListing, error) {
	var products []models.ProductListing
	if err := c.getJSON(ctx, "/categories/"+url.PathEscape(categoryID)+"/products", &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.ProductListing{}
	}
	return products, nil
}

// CreateProduct posts a product as a multipart form under its category.
// image is the content of the staged upload named by sub.Image.
func (c *Client) CreateProduct(ctx context.Context, sub models.ProductSubmission, image io.Reader) error {
	var buf bytes.Buffer
	contentType, err := WriteProductForm(&buf, sub, image)
	if err != nil {
		return err
	}
	path := "/categories/" + url.PathEscape(sub.Category) + "/products"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req, nil)
}

// WriteProductForm encodes the submission as multipart/form-data and returns the content type.
// Variants and combinations become indexed fields: variants[i][option], variants[i][values][j],
// combinations[i][sku|inStock|quantity].
func WriteProductForm(w io.Writer, sub models.ProductSubmission, image io.Reader) (string, error) {
	mw := multipart.NewWriter(w)

	fields := [][2]string{
		{"productName", sub.ProductName},
		{"category", sub.Category},
		{"brand", sub.Brand},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return "", fmt.Errorf("write field %s: %w", f[0], err)
		}
	}

	if err := writeImagePart(mw, sub.Image, image); err != nil {
		return "", err
	}

	fields = [][2]string{
		{"price", sub.Price.String()},
		{"discount", sub.Discount.String()},
		{"discountType", string(sub.DiscountType)},
	}
	for i, v := range sub.Variants {
		fields = append(fields, [2]string{fmt.Sprintf("variants[%d][option]", i), v.Option})
		for j, value := range v.Values {
			fields = append(fields, [2]string{fmt.Sprintf("variants[%d][values][%d]", i, j), value})
		}
	}
	for i, cmb := range sub.Combinations {
		fields = append(fields,
			[2]string{fmt.Sprintf("combinations[%d][sku]", i), cmb.SKU},
			[2]string{fmt.Sprintf("combinations[%d][inStock]", i), strconv.FormatBool(cmb.InStock)},
			[2]string{fmt.Sprintf("combinations[%d][quantity]", i), strconv.Itoa(cmb.Quantity)},
		)
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return "", fmt.Errorf("write field %s: %w", f[0], err)
		}
	}

	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart: %w", err)
	}
	return mw.FormDataContentType(), nil
}

func writeImagePart(mw *multipart.Writer, asset models.ImageAsset, image io.Reader) error {
	if image == nil {
		return fmt.Errorf("image %q has no content", asset.Key)
	}
	filename := asset.Filename
	if filename == "" {
		filename = "image"
	}
	contentType := asset.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create image part: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return fmt.Errorf("copy image: %w", err)
	}
	return nil
}

// ImageURL resolves a product image path against the backend base URL.
// Absolute URLs are returned unchanged.
func (c *Client) ImageURL(path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.BaseURL + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) endpoint(path string) string {
	return c.BaseURL + path
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.Method, req.URL, err)
	}
	return nil
}
