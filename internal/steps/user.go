package steps

import (
	"fmt"

	"github.com/chrysalis-cube/chrysalis/internal/depkey"
	"github.com/chrysalis-cube/chrysalis/internal/depstore"
	"github.com/chrysalis-cube/chrysalis/internal/ports"
	"github.com/chrysalis-cube/chrysalis/internal/reconcile"
)

type userRecord struct {
	ID    int    `json:"id"`
	URL   string `json:"url"`
	Email string `json:"email"`
}

// NewUserExists is the root of a user's chain: checks whether the user
// already exists, creating it with the manifest's password/email if not.
// Provides UserExists(username). No predecessors.
func NewUserExists(cubeURL, username, password, email string) *reconcile.PendingStep {
	key := depkey.User(depkey.UserExists, username)
	step := &userExistsStep{cubeURL: cubeURL, username: username, password: password, email: email}
	return &reconcile.PendingStep{
		ID:       "user-exists:" + username,
		Provides: []depkey.Key{key},
		Evaluate: func(store depstore.Reader) reconcile.EvalResult {
			if reconcile.DefaultSkipCheck(store, step.Provides()) {
				return reconcile.Skip()
			}
			return reconcile.Run(step)
		},
	}
}

type userExistsStep struct {
	cubeURL, username, password, email string
}

func (s *userExistsStep) Provides() []depkey.Key {
	return []depkey.Key{depkey.User(depkey.UserExists, s.username)}
}

func (s *userExistsStep) Search() ports.HTTPRequest {
	return jsonGet(fmt.Sprintf("%susers/search/?username=%s", s.cubeURL, s.username), "")
}

func (s *userExistsStep) ClassifyStatus(status int) reconcile.StatusClass { return alwaysExists(status) }

func (s *userExistsStep) Deserialize(body []byte) (reconcile.Check, error) {
	results, err := decodeSearch[userRecord](body)
	if err != nil {
		return reconcile.Check{}, err
	}
	if len(results) == 0 {
		return reconcile.Check{Kind: reconcile.CheckDoesNotExist}, nil
	}
	return reconcile.Check{
		Kind:    reconcile.CheckExists,
		Entries: singleEntry(depkey.User(depkey.UserExists, s.username), fmt.Sprintf("%d", results[0].ID)),
	}, nil
}

func (s *userExistsStep) Create() *reconcile.SubRequest {
	req, err := jsonPost(s.cubeURL+"users/", "", map[string]string{
		"username": s.username,
		"password": s.password,
		"email":    s.email,
	})
	if err != nil {
		return nil
	}
	username := s.username
	return &reconcile.SubRequest{
		Request: req,
		Deserialize: func(body []byte) ([]depstore.Entry, error) {
			var created userRecord
			if err := decodeInto(body, &created); err != nil {
				return nil, err
			}
			return singleEntry(depkey.User(depkey.UserExists, username), fmt.Sprintf("%d", created.ID)), nil
		},
	}
}

func (s *userExistsStep) Modify() *reconcile.SubRequest { return nil }

// NewUserGetAuthToken exchanges the user's manifest password for a bearer
// token. Provides AuthToken(username); requires UserExists(username).
//
// CUBE's auth-token endpoint returns 400 when the named user does not
// exist yet, which this step classifies as DoesNotExist rather than Error —
// the concrete example of the status-quirk override spec.md §4.2 calls out.
func NewUserGetAuthToken(cubeURL, username, password string) *reconcile.PendingStep {
	key := depkey.User(depkey.AuthToken, username)
	existsKey := depkey.User(depkey.UserExists, username)
	return &reconcile.PendingStep{
		ID:       "user-auth-token:" + username,
		Provides: []depkey.Key{key},
		Evaluate: func(store depstore.Reader) reconcile.EvalResult {
			if reconcile.DefaultSkipCheck(store, []depkey.Key{key}) {
				return reconcile.Skip()
			}
			if !store.Contains(existsKey) {
				return reconcile.Unfulfilled(existsKey)
			}
			return reconcile.Run(&userAuthTokenStep{cubeURL: cubeURL, username: username, password: password})
		},
	}
}

type userAuthTokenStep struct {
	cubeURL, username, password string
}

func (s *userAuthTokenStep) Provides() []depkey.Key {
	return []depkey.Key{depkey.User(depkey.AuthToken, s.username)}
}

func (s *userAuthTokenStep) Search() ports.HTTPRequest {
	req, _ := jsonPost(s.cubeURL+"auth-token/", "", map[string]string{
		"username": s.username,
		"password": s.password,
	})
	return req
}

func (s *userAuthTokenStep) ClassifyStatus(status int) reconcile.StatusClass {
	switch {
	case status >= 200 && status < 300:
		return reconcile.StatusExists
	case status == 400:
		return reconcile.StatusDoesNotExist
	default:
		return reconcile.StatusClassError
	}
}

func (s *userAuthTokenStep) Deserialize(body []byte) (reconcile.Check, error) {
	var payload struct {
		Token string `json:"token"`
	}
	if err := decodeInto(body, &payload); err != nil {
		return reconcile.Check{}, err
	}
	if payload.Token == "" {
		return reconcile.Check{}, missingFieldError("user-auth-token", "token")
	}
	return reconcile.Check{
		Kind:    reconcile.CheckExists,
		Entries: singleEntry(depkey.User(depkey.AuthToken, s.username), payload.Token),
	}, nil
}

func (s *userAuthTokenStep) Create() *reconcile.SubRequest { return nil }
func (s *userAuthTokenStep) Modify() *reconcile.SubRequest { return nil }

// NewUserGetURL resolves the user's canonical resource URL. Provides
// UserUrl(username); requires AuthToken(username).
func NewUserGetURL(cubeURL, username string) *reconcile.PendingStep {
	key := depkey.User(depkey.UserUrl, username)
	tokenKey := depkey.User(depkey.AuthToken, username)
	return &reconcile.PendingStep{
		ID:       "user-url:" + username,
		Provides: []depkey.Key{key},
		Evaluate: func(store depstore.Reader) reconcile.EvalResult {
			if reconcile.DefaultSkipCheck(store, []depkey.Key{key}) {
				return reconcile.Skip()
			}
			token, ok := store.Get(tokenKey)
			if !ok {
				return reconcile.Unfulfilled(tokenKey)
			}
			return reconcile.Run(&userURLStep{cubeURL: cubeURL, username: username, token: token})
		},
	}
}

type userURLStep struct {
	cubeURL, username, token string
}

func (s *userURLStep) Provides() []depkey.Key {
	return []depkey.Key{depkey.User(depkey.UserUrl, s.username)}
}

func (s *userURLStep) Search() ports.HTTPRequest {
	return jsonGet(fmt.Sprintf("%susers/search/?username=%s", s.cubeURL, s.username), s.token)
}

func (s *userURLStep) ClassifyStatus(status int) reconcile.StatusClass { return alwaysExists(status) }

func (s *userURLStep) Deserialize(body []byte) (reconcile.Check, error) {
	results, err := decodeSearch[userRecord](body)
	if err != nil {
		return reconcile.Check{}, err
	}
	if len(results) == 0 {
		return reconcile.Check{}, missingFieldError("user-url", "results")
	}
	return reconcile.Check{
		Kind:    reconcile.CheckExists,
		Entries: singleEntry(depkey.User(depkey.UserUrl, s.username), results[0].URL),
	}, nil
}

func (s *userURLStep) Create() *reconcile.SubRequest { return nil }
func (s *userURLStep) Modify() *reconcile.SubRequest { return nil }

// NewUserGetDetails fetches the user's current email from its resource URL.
// Provides UserEmail(username); requires UserUrl(username).
func NewUserGetDetails(username string) *reconcile.PendingStep {
	key := depkey.User(depkey.UserEmail, username)
	urlKey := depkey.User(depkey.UserUrl, username)
	tokenKey := depkey.User(depkey.AuthToken, username)
	return &reconcile.PendingStep{
		ID:       "user-details:" + username,
		Provides: []depkey.Key{key},
		Evaluate: func(store depstore.Reader) reconcile.EvalResult {
			if reconcile.DefaultSkipCheck(store, []depkey.Key{key}) {
				return reconcile.Skip()
			}
			userURL, ok := store.Get(urlKey)
			if !ok {
				return reconcile.Unfulfilled(urlKey)
			}
			token, ok := store.Get(tokenKey)
			if !ok {
				return reconcile.Unfulfilled(tokenKey)
			}
			return reconcile.Run(&userDetailsStep{username: username, userURL: userURL, token: token})
		},
	}
}

type userDetailsStep struct {
	username, userURL, token string
}

func (s *userDetailsStep) Provides() []depkey.Key {
	return []depkey.Key{depkey.User(depkey.UserEmail, s.username)}
}

func (s *userDetailsStep) Search() ports.HTTPRequest { return jsonGet(s.userURL, s.token) }

func (s *userDetailsStep) ClassifyStatus(status int) reconcile.StatusClass { return alwaysExists(status) }

func (s *userDetailsStep) Deserialize(body []byte) (reconcile.Check, error) {
	var record userRecord
	if err := decodeInto(body, &record); err != nil {
		return reconcile.Check{}, err
	}
	return reconcile.Check{
		Kind:    reconcile.CheckExists,
		Entries: singleEntry(depkey.User(depkey.UserEmail, s.username), record.Email),
	}, nil
}

func (s *userDetailsStep) Create() *reconcile.SubRequest { return nil }
func (s *userDetailsStep) Modify() *reconcile.SubRequest { return nil }

// NewUserDetailsFinalize compares the manifest's desired email against the
// email observed by NewUserGetDetails and, if they differ, PATCHes the
// user's resource. Provides UserGroupsUrl(username); requires
// UserEmail(username) and UserUrl(username). Terminal node in the user
// chain.
func NewUserDetailsFinalize(username, wantedEmail string) *reconcile.PendingStep {
	key := depkey.User(depkey.UserGroupsUrl, username)
	emailKey := depkey.User(depkey.UserEmail, username)
	urlKey := depkey.User(depkey.UserUrl, username)
	tokenKey := depkey.User(depkey.AuthToken, username)
	return &reconcile.PendingStep{
		ID:       "user-finalize:" + username,
		Provides: []depkey.Key{key},
		Evaluate: func(store depstore.Reader) reconcile.EvalResult {
			if reconcile.DefaultSkipCheck(store, []depkey.Key{key}) {
				return reconcile.Skip()
			}
			currentEmail, ok := store.Get(emailKey)
			if !ok {
				return reconcile.Unfulfilled(emailKey)
			}
			userURL, ok := store.Get(urlKey)
			if !ok {
				return reconcile.Unfulfilled(urlKey)
			}
			token, ok := store.Get(tokenKey)
			if !ok {
				return reconcile.Unfulfilled(tokenKey)
			}
			return reconcile.Run(&userFinalizeStep{
				username:     username,
				userURL:      userURL,
				token:        token,
				currentEmail: currentEmail,
				wantedEmail:  wantedEmail,
			})
		},
	}
}

type userFinalizeStep struct {
	username, userURL, token, currentEmail, wantedEmail string
}

func (s *userFinalizeStep) Provides() []depkey.Key {
	return []depkey.Key{depkey.User(depkey.UserGroupsUrl, s.username)}
}

// Search re-fetches the user's resource, mirroring the other steps'
// idempotent-check shape, even though the modify decision was already made
// from the store values closed over at construction.
func (s *userFinalizeStep) Search() ports.HTTPRequest { return jsonGet(s.userURL, s.token) }

func (s *userFinalizeStep) ClassifyStatus(status int) reconcile.StatusClass { return alwaysExists(status) }

func (s *userFinalizeStep) Deserialize(body []byte) (reconcile.Check, error) {
	var record struct {
		GroupsURL string `json:"groups"`
	}
	if err := decodeInto(body, &record); err != nil {
		return reconcile.Check{}, err
	}
	if s.currentEmail == s.wantedEmail {
		return reconcile.Check{
			Kind:    reconcile.CheckExists,
			Entries: singleEntry(depkey.User(depkey.UserGroupsUrl, s.username), record.GroupsURL),
		}, nil
	}
	return reconcile.Check{Kind: reconcile.CheckNeedsModification}, nil
}

func (s *userFinalizeStep) Create() *reconcile.SubRequest { return nil }

func (s *userFinalizeStep) Modify() *reconcile.SubRequest {
	req, err := jsonPatch(s.userURL, s.token, map[string]string{"email": s.wantedEmail})
	if err != nil {
		return nil
	}
	username := s.username
	return &reconcile.SubRequest{
		Request: req,
		Deserialize: func(body []byte) ([]depstore.Entry, error) {
			var record struct {
				GroupsURL string `json:"groups"`
			}
			if err := decodeInto(body, &record); err != nil {
				return nil, err
			}
			return singleEntry(depkey.User(depkey.UserGroupsUrl, username), record.GroupsURL), nil
		},
	}
}
