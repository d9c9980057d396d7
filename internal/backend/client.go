// Package backend is the HTTP client for the media generation service:
// image/video synthesis, upload, trim-encode and sequence-export. The engine
// treats every call as an opaque request/response pair; the wire shapes here
// are fixed by the backend and not negotiable.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mkorchagin/scenecut/internal/timeline"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Minute, // video generation polls for minutes
		},
	}
}

type GenerateImageParams struct {
	Prompt string
	// Mode is "auto", "new" or "edit".
	Mode string
	// CurrentImage is the image being edited, when Mode is edit/auto.
	CurrentImage string
}

type imagePathResponse struct {
	ImagePath string `json:"image_path"`
}

type videoPathResponse struct {
	VideoPath string `json:"video_path"`
}

// GenerateImage asks the backend for a new or edited image and returns the
// resulting image path.
func (c *Client) GenerateImage(ctx context.Context, p GenerateImageParams) (string, error) {
	form := url.Values{}
	form.Set("prompt", p.Prompt)
	form.Set("mode", p.Mode)
	if p.CurrentImage != "" {
		form.Set("current_image", p.CurrentImage)
	}

	var resp imagePathResponse
	if err := c.postForm(ctx, "/generate-image", form, &resp); err != nil {
		return "", fmt.Errorf("generate image: %w", err)
	}
	return resp.ImagePath, nil
}

// GenerateVideo animates an image into a video clip and returns the video
// path.
func (c *Client) GenerateVideo(ctx context.Context, imagePath, prompt string) (string, error) {
	form := url.Values{}
	form.Set("image_path", imagePath)
	form.Set("prompt", prompt)

	var resp videoPathResponse
	if err := c.postForm(ctx, "/generate-video", form, &resp); err != nil {
		return "", fmt.Errorf("generate video: %w", err)
	}
	return resp.VideoPath, nil
}

// UploadImage sends raw image bytes and returns the stored image path.
func (c *Client) UploadImage(ctx context.Context, filename string, file io.Reader) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload-image", body)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var resp imagePathResponse
	if err := c.do(req, &resp); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return resp.ImagePath, nil
}

// TrimVideo asks the backend to encode a trimmed copy and returns the new
// artifact's path.
func (c *Client) TrimVideo(ctx context.Context, trim timeline.TrimRequest) (string, error) {
	form := url.Values{}
	form.Set("video_path", trim.VideoPath)
	form.Set("start_time", strconv.FormatFloat(trim.StartTime, 'f', -1, 64))
	form.Set("end_time", strconv.FormatFloat(trim.EndTime, 'f', -1, 64))

	var resp videoPathResponse
	if err := c.postForm(ctx, "/trim-video", form, &resp); err != nil {
		return "", fmt.Errorf("trim video: %w", err)
	}
	return resp.VideoPath, nil
}

// ExportSequence concatenates the trimmed segments into one video and
// returns its path.
func (c *Client) ExportSequence(ctx context.Context, seq timeline.SequenceRequest) (string, error) {
	payload, err := json.Marshal(seq)
	if err != nil {
		return "", fmt.Errorf("export sequence: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/export-sequence", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("export sequence: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp videoPathResponse
	if err := c.do(req, &resp); err != nil {
		return "", fmt.Errorf("export sequence: %w", err)
	}
	return resp.VideoPath, nil
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("backend returned %d: %s", resp.StatusCode, truncate(body, 200))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
