package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/khrees2412/stageconnect/pkg/models"
)

const profileEndpoint = "/student-profile/"

// ProfileUpdate holds the fields sent by UpdateStudentProfile. Nil fields are
// omitted. CV, when set, is uploaded as the "cv" file part named CVFilename.
type ProfileUpdate struct {
	Bio        *string
	Phone      *string
	CV         io.Reader
	CVFilename string
}

func (c *Client) GetStudentProfile(ctx context.Context) (models.StudentProfile, error) {
	var profile models.StudentProfile
	err := c.Do(ctx, http.MethodGet, profileEndpoint, nil, &profile)
	return profile, err
}

// UpdateStudentProfile sends the update as multipart/form-data
func (c *Client) UpdateStudentProfile(ctx context.Context, update ProfileUpdate) (models.StudentProfile, error) {
	body, contentType, err := encodeProfile(update)
	if err != nil {
		return models.StudentProfile{}, err
	}
	var profile models.StudentProfile
	err = c.doMultipart(ctx, http.MethodPut, profileEndpoint, body, contentType, &profile)
	return profile, err
}

func encodeProfile(update ProfileUpdate) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if update.Bio != nil {
		if err := w.WriteField("bio", *update.Bio); err != nil {
			return nil, "", fmt.Errorf("encode bio: %w", err)
		}
	}
	if update.Phone != nil {
		if err := w.WriteField("phone", *update.Phone); err != nil {
			return nil, "", fmt.Errorf("encode phone: %w", err)
		}
	}
	if update.CV != nil {
		name := update.CVFilename
		if name == "" {
			name = "cv.pdf"
		}
		part, err := w.CreateFormFile("cv", name)
		if err != nil {
			return nil, "", fmt.Errorf("encode cv: %w", err)
		}
		if _, err := io.Copy(part, update.CV); err != nil {
			return nil, "", fmt.Errorf("read cv: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("encode profile: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
