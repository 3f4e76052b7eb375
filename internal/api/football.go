// internal/api/football.go
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/impostorgame/client-go/internal/models"
)

// FootballClient looks football players up through the backend's lookup
// endpoint. Lookup failures are absorbed: the game only needs some roster,
// so a hardcoded fallback is returned instead of an error.
type FootballClient struct {
	base string
	http *http.Client
	log  *logrus.Logger
}

// NewFootballClient returns a lookup client for the given base URL.
func NewFootballClient(base string, logger *logrus.Logger) *FootballClient {
	if logger == nil {
		logger = logrus.New()
	}
	return &FootballClient{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: requestTimeout},
		log:  logger,
	}
}

type playersResponse struct {
	Success bool                    `json:"success"`
	Count   int                     `json:"count"`
	Players []models.FootballPlayer `json:"players"`
}

// PopularPlayers fetches the roster used for assignments. It never fails;
// on any error the fallback roster is returned.
func (f *FootballClient) PopularPlayers(ctx context.Context) []models.FootballPlayer {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.base+"/api/players/popular", nil)
	if err != nil {
		return FallbackPlayers()
	}

	var resp playersResponse
	if err := doJSON(f.http, req, &resp); err != nil {
		f.log.Warnf("football lookup failed, using fallback roster: %v", err)
		return FallbackPlayers()
	}
	if !resp.Success || len(resp.Players) == 0 {
		f.log.Warn("football lookup returned no players, using fallback roster")
		return FallbackPlayers()
	}
	return resp.Players
}

// FallbackPlayers is the minimal roster used when the lookup service is
// unreachable.
func FallbackPlayers() []models.FootballPlayer {
	return []models.FootballPlayer{
		{ID: "1", Name: "Lionel Messi", Team: "Inter Miami", Position: "Forward", Nationality: "Argentina"},
		{ID: "2", Name: "Cristiano Ronaldo", Team: "Al Nassr", Position: "Forward", Nationality: "Portugal"},
		{ID: "3", Name: "Kylian Mbappé", Team: "PSG", Position: "Forward", Nationality: "France"},
		{ID: "4", Name: "Kevin De Bruyne", Team: "Manchester City", Position: "Midfielder", Nationality: "Belgium"},
		{ID: "5", Name: "Virgil van Dijk", Team: "Liverpool", Position: "Defender", Nationality: "Netherlands"},
		{ID: "6", Name: "Robert Lewandowski", Team: "Barcelona", Position: "Forward", Nationality: "Poland"},
		{ID: "7", Name: "Mohamed Salah", Team: "Liverpool", Position: "Forward", Nationality: "Egypt"},
		{ID: "8", Name: "Erling Haaland", Team: "Manchester City", Position: "Forward", Nationality: "Norway"},
	}
}
