package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	appErr "github.com/xxxsen/hylur/internal/pkg/errors"
	"github.com/xxxsen/hylur/internal/service/servicetest"
)

func TestFaviconFor(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "https://openai.com/research", want: "https://openai.com/favicon.ico"},
		{in: "HTTP://Example.com:8080/a?b=c", want: "http://Example.com:8080/favicon.ico"},
		{in: "ftp://files.example.com", wantErr: true},
		{in: "example.com/page", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := FaviconFor(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, appErr.ErrInvalid)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestWebLinkCreate(t *testing.T) {
	links := &servicetest.WebLinks{}
	svc := NewWebLinkService(links)

	_, err := svc.Create(context.Background(), "u1", CreateWebLinkInput{URL: "https://go.dev"})
	require.ErrorIs(t, err, appErr.ErrInvalid)

	link, err := svc.Create(context.Background(), "u1", CreateWebLinkInput{Title: " Go ", URL: " https://go.dev/blog ", Description: "blog"})
	require.NoError(t, err)
	require.Equal(t, "Go", link.Title)
	require.Equal(t, "https://go.dev/blog", link.URL)
	require.Equal(t, "https://go.dev/favicon.ico", link.Favicon)

	list, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NoError(t, svc.Delete(context.Background(), "u1", link.ID))
	require.ErrorIs(t, svc.Delete(context.Background(), "u1", link.ID), appErr.ErrNotFound)
}
