package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/stemsi/seatdesk/internal/model"
	"github.com/stemsi/seatdesk/internal/response"
)

// UploadedFiles lists every roster on the server, newest first.
func (c *Client) UploadedFiles(ctx context.Context) ([]model.UploadedFile, error) {
	var out struct {
		Files []model.UploadedFile `json:"files"`
	}
	if err := c.getJSON(ctx, "list uploaded files", "/get_uploaded_files/", nil, &out); err != nil {
		return nil, err
	}
	return out.Files, nil
}

// UploadStudentFile sends a roster spreadsheet as multipart form data.
func (c *Client) UploadStudentFile(ctx context.Context, fileName string, content io.Reader, meta model.UploadMeta) (*model.UploadedFile, error) {
	const op = "upload student file"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{
		"year":       strconv.Itoa(meta.Year),
		"semester":   strconv.Itoa(meta.Semester),
		"department": meta.Department,
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, response.Transport(op, err)
		}
	}

	part, err := mw.CreateFormFile("file", filepath.Base(fileName))
	if err != nil {
		return nil, response.Transport(op, err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, response.Transport(op, fmt.Errorf("read %s: %w", fileName, err))
	}
	if err := mw.Close(); err != nil {
		return nil, response.Transport(op, err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/upload_student_data/", nil, &buf, mw.FormDataContentType())
	if err != nil {
		return nil, response.Transport(op, err)
	}

	var out struct {
		File model.UploadedFile `json:"file"`
	}
	if _, err := c.send(op, req, &out); err != nil {
		return nil, err
	}
	return &out.File, nil
}
