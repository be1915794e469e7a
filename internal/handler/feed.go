package handler

import (
	"net/http"

	"github.com/mkrelic/casevault/internal/feed"
	"github.com/mkrelic/casevault/internal/logger"
)

// HandleSearchFeed proxies an item search to the external feed. Upstream
// failures surface as an empty result set, never an error.
// @Summary Search the item feed
// @Tags feed
// @Produce json
// @Param query query string true "Search text"
// @Success 200 {object} DataResponse
// @Router /feed/search [get]
func HandleSearchFeed(client feed.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, ok := GetQueryParam(r, w, "query")
		if !ok {
			return
		}

		records := client.SearchItems(r.Context(), query)
		respondJSON(w, http.StatusOK, DataResponse{Data: records})
	}
}

// ImportResponse summarizes an import run
type ImportResponse struct {
	Imported map[string]int `json:"imported"`
	Total    int            `json:"total"`
}

// HandleImport triggers a full catalog import from the feed followed by a
// rebuild of the rarity-based cases.
// @Summary Import catalog from feed
// @Tags feed
// @Produce json
// @Success 200 {object} ImportResponse
// @Failure 500 {object} ErrorResponse
// @Router /feed/import [post]
func HandleImport(importer *feed.Importer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		counts, err := importer.ImportAllLimiteds(r.Context())
		if err != nil {
			log.Error("Failed to import items", "error", err)
			respondError(w, http.StatusInternalServerError, ErrMsgImportFailed)
			return
		}

		if err := importer.CreateRarityBasedCases(r.Context()); err != nil {
			log.Error("Failed to rebuild rarity cases", "error", err)
			respondError(w, http.StatusInternalServerError, ErrMsgImportFailed)
			return
		}

		resp := ImportResponse{Imported: make(map[string]int, len(counts))}
		for rarity, n := range counts {
			resp.Imported[string(rarity)] = n
			resp.Total += n
		}

		log.Info("Catalog import complete", "total", resp.Total)
		respondJSON(w, http.StatusOK, resp)
	}
}
