// Package sigtest provides testing helpers for resources built on httpres:
// a chi-routed httptest server builder, a scripted status sequencer for
// exercising retry behavior, and a request recorder for replay assertions.
//
// # Quick Start
//
//	func TestUsers(t *testing.T) {
//	    srv := sigtest.NewServer(t, func(mux chi.Router) {
//	        mux.Get("/users/1", func(w http.ResponseWriter, r *http.Request) {
//	            sigtest.JSON(w, 200, map[string]string{"name": "ada"})
//	        })
//	    })
//	    res := httpres.New(srv.URL)
//	    ...
//	}
package sigtest
