package services

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/devconnect/internal/utils"
)

// RepoLister is the upstream repository listing, see providers/github.
type RepoLister interface {
	ListRepos(ctx context.Context, username string) (status int, body []byte, err error)
}

type GitHubService interface {
	Repos(ctx context.Context, username string) (json.RawMessage, error)
}

type gitHubService struct {
	repos RepoLister
	log   *logrus.Logger
}

func NewGitHubService(repos RepoLister, log *logrus.Logger) GitHubService {
	if log == nil {
		log = logrus.New()
	}
	return &gitHubService{repos: repos, log: log}
}

// Repos makes exactly one upstream call. Every non-200 answer becomes the
// same NotFound; transport failures are logged and reported as internal.
func (s *gitHubService) Repos(ctx context.Context, username string) (json.RawMessage, error) {
	const op = "GitHubService.Repos"

	username = strings.TrimSpace(username)
	if username == "" {
		return nil, utils.E(utils.CodeNotFound, op, "No Github profile found", nil)
	}

	status, body, err := s.repos.ListRepos(ctx, username)
	if err != nil {
		s.log.WithError(err).WithField("username", username).Error("github repository lookup failed")
		return nil, utils.E(utils.CodeInternal, op, "github lookup failed", err)
	}
	if status != http.StatusOK {
		return nil, utils.E(utils.CodeNotFound, op, "No Github profile found", nil)
	}
	if !json.Valid(body) {
		s.log.WithField("username", username).Error("github returned a non-JSON body")
		return nil, utils.E(utils.CodeInternal, op, "github returned an invalid body", nil)
	}
	return json.RawMessage(body), nil
}
