package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/xxxsen/hylur/internal/model"
	appErr "github.com/xxxsen/hylur/internal/pkg/errors"
	"github.com/xxxsen/hylur/internal/pkg/timeutil"
	"github.com/xxxsen/hylur/internal/repo"
)

type CreateWebLinkInput struct {
	Title       string
	URL         string
	Description string
}

type WebLinkService struct {
	links WebLinkStore
}

func NewWebLinkService(links WebLinkStore) *WebLinkService {
	return &WebLinkService{links: links}
}

func (s *WebLinkService) Create(ctx context.Context, userID string, input CreateWebLinkInput) (*model.WebLink, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", appErr.ErrInvalid)
	}
	rawURL := strings.TrimSpace(input.URL)
	favicon, err := FaviconFor(rawURL)
	if err != nil {
		return nil, err
	}
	now := timeutil.NowUnix()
	link := &model.WebLink{
		ID:          newID(),
		UserID:      userID,
		Title:       title,
		URL:         rawURL,
		Description: strings.TrimSpace(input.Description),
		Favicon:     favicon,
		Ctime:       now,
		Mtime:       now,
	}
	if err := s.links.Create(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

func (s *WebLinkService) List(ctx context.Context, userID string) ([]model.WebLink, error) {
	return s.links.List(ctx, userID, repo.ListOptions{OrderBy: "ctime desc"})
}

func (s *WebLinkService) Delete(ctx context.Context, userID, linkID string) error {
	return s.links.Delete(ctx, userID, linkID)
}

// FaviconFor validates rawURL as an absolute http(s) address and returns the
// conventional favicon location on its host.
func FaviconFor(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: url must be absolute", appErr.ErrInvalid)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("%w: url must use http or https", appErr.ErrInvalid)
	}
	return scheme + "://" + u.Host + "/favicon.ico", nil
}
