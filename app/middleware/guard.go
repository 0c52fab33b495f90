package middleware

import (
	"encoding/json"
	"net/http"
)

// DeniedHeader carries the Reason of an authorization denial.
const DeniedHeader = "X-Auth-Denied"

// Reason explains why a request was denied.
type Reason string

const (
	ReasonAnonymous Reason = "anonymous"
	ReasonNotAdmin  Reason = "not_admin"
	ReasonNotOwner  Reason = "not_owner"
)

// Policy is a predicate a route requires.
type Policy int

const (
	PolicyAuthenticated Policy = iota
	PolicyAdmin
)

// Decision is the outcome of Authorize. Reason is empty when Allowed.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision { return Decision{Allowed: true} }
func deny(reason Reason) Decision { return Decision{Reason: reason} }

// Authorize evaluates policy for the identity.
func Authorize(id Identity, policy Policy) Decision {
	if !id.Authenticated() {
		return deny(ReasonAnonymous)
	}
	if policy == PolicyAdmin && !id.User.IsAdmin() {
		return deny(ReasonNotAdmin)
	}
	return allow()
}

// AuthorizeOwner allows only the identity whose user id is ownerID.
func AuthorizeOwner(id Identity, ownerID int) Decision {
	if !id.Authenticated() {
		return deny(ReasonAnonymous)
	}
	if id.User.ID != ownerID {
		return deny(ReasonNotOwner)
	}
	return allow()
}

// Guard wraps next so it only runs when policy allows the request.
func Guard(policy Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if d := Authorize(IdentityFrom(r.Context()), policy); !d.Allowed {
				Deny(w, r, d.Reason)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequireAuth(next http.Handler) http.Handler {
	return Guard(PolicyAuthenticated)(next)
}

func RequireAdmin(next http.Handler) http.Handler {
	return Guard(PolicyAdmin)(next)
}

// Deny answers a refused request. Browsers are sent back to the listing
// without an error page; JSON clients get 403.
func Deny(w http.ResponseWriter, r *http.Request, reason Reason) {
	w.Header().Set(DeniedHeader, string(reason))
	if WantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"error": "forbidden", "reason": string(reason)})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
