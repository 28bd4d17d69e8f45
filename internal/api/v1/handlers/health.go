package handlers

import (
	"net/http"

	"github.com/partselect/partchat/pkg/httpext"
)

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	httpext.JsonResponse(w, http.StatusOK, map[string]string{"status": "healthy"})
}
