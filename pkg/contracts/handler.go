package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by every domain handler wired into the app router.
type Handler interface {
	RegisterRoutes(router *httprouter.Router)
}
