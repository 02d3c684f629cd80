package handlers

import (
	"log"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/solvehub/server/internal/api/services"
	"github.com/solvehub/server/internal/blob"
	"github.com/solvehub/server/internal/config"
	"github.com/solvehub/server/internal/store"
	"github.com/solvehub/server/internal/utils"
)

var (
	envs     config.Config
	posts    *store.PostStore
	blobs    blob.Store
	oauthCfg *oauth2.Config
)

// Init wires the handler package to its collaborators. Called once from
// router setup (and from tests with an in-memory store).
func Init(cfg config.Config, st *store.PostStore, b blob.Store) {
	envs = cfg
	posts = st
	blobs = b
	oauthCfg = services.GoogleOauth(cfg.Google)
}

// internalError logs the real cause server-side and sends the client a
// generic message; driver and SDK error text never reaches the response.
func internalError(w http.ResponseWriter, op string, err error) {
	log.Printf("%s: %v", op, err)
	utils.Fail(w, http.StatusInternalServerError, "Something went wrong")
}
