package liaobots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/leofalp/chatbridge/internal/utils"
	"github.com/leofalp/chatbridge/providers/ai"
	"github.com/leofalp/chatbridge/providers/observability"
)

const (
	loginPath = "/recaptcha/api/login"
	userPath  = "/api/user"

	// loginToken is the placeholder captcha token the login endpoint accepts.
	loginToken = "abcdefghijklmnopqrst"

	stepLogin = "login"
	stepUser  = "user"
)

var errMissingAuthCode = errors.New(`response has no "authCode"`)

// session returns the session to use for a call: the cached one, or a new one
// from the login handshake. Concurrent callers that find the store empty share
// a single handshake; a caller whose context ends stops waiting without
// cancelling the handshake for the others.
func (provider *LiaobotsProvider) session(ctx context.Context, proxyURL string) (Session, string, error) {
	if session, ok := provider.store.Load(); ok && session.AuthCode != "" {
		return session, sourceCache, nil
	}

	result := provider.flight.DoChan(provider.baseURL, func() (any, error) {
		// Another caller may have finished a handshake while this one queued.
		if session, ok := provider.store.Load(); ok && session.AuthCode != "" {
			return session, nil
		}
		session, err := provider.handshake(context.WithoutCancel(ctx), proxyURL)
		if err != nil {
			return Session{}, err
		}
		provider.store.Store(session)
		return session, nil
	})

	select {
	case <-ctx.Done():
		return Session{}, "", ctx.Err()
	case outcome := <-result:
		if outcome.Err != nil {
			return Session{}, "", outcome.Err
		}
		return outcome.Val.(Session), sourceHandshake, nil
	}
}

// handshake logs in with the placeholder token, then asks /api/user for an
// auth code. Cookies set by either step are kept in the returned session.
func (provider *LiaobotsProvider) handshake(ctx context.Context, proxyURL string) (Session, error) {
	observer := observability.ObserverFromContext(ctx)

	var span observability.Span
	if observer != nil {
		ctx, span = observer.StartSpan(ctx, observability.SpanSessionHandshake,
			observability.String(observability.AttrLLMProvider, ProviderName),
		)
		defer span.End()
	}

	jar, err := utils.NewCookieJar()
	if err != nil {
		return Session{}, &ai.AuthHandshakeError{Provider: ProviderName, Step: stepLogin, Err: err}
	}

	client, release, err := utils.NewScopedClient(provider.client, proxyURL, jar)
	if err != nil {
		return Session{}, &ai.AuthHandshakeError{Provider: ProviderName, Step: stepLogin, Err: err}
	}
	defer release()

	headers := provider.headers()

	if span != nil {
		span.AddEvent("session.login", observability.String(observability.AttrSessionStep, stepLogin))
	}
	_, _, err = utils.DoPostRaw(ctx, client, provider.endpoint(loginPath), "",
		url.Values{"token": {loginToken}}, headers...)
	if err != nil {
		return Session{}, provider.handshakeError(ctx, span, stepLogin, err)
	}

	if span != nil {
		span.AddEvent("session.user", observability.String(observability.AttrSessionStep, stepUser))
	}
	_, body, err := utils.DoPostRaw(ctx, client, provider.endpoint(userPath), "",
		userRequest{AuthCode: ""}, headers...)
	if err != nil {
		return Session{}, provider.handshakeError(ctx, span, stepUser, err)
	}

	// The endpoint does not always label its JSON, so the content type is ignored.
	var user userResponse
	if err := json.Unmarshal(body, &user); err != nil {
		return Session{}, provider.handshakeError(ctx, span, stepUser,
			fmt.Errorf("error decoding user response: %w: %s", err, utils.TruncateStringDefault(string(body))))
	}
	if user.AuthCode == "" {
		return Session{}, provider.handshakeError(ctx, span, stepUser, errMissingAuthCode)
	}

	if span != nil {
		span.AddEvent(observability.EventSessionStored)
		span.SetStatus(observability.StatusOK, "")
	}
	if observer != nil {
		observer.Debug(ctx, "Liaobots session established",
			observability.String(observability.AttrLLMEndpoint, provider.baseURL),
		)
	}

	return Session{AuthCode: user.AuthCode, Jar: jar}, nil
}

func (provider *LiaobotsProvider) handshakeError(ctx context.Context, span observability.Span, step string, err error) error {
	handshakeErr := &ai.AuthHandshakeError{Provider: ProviderName, Step: step, Err: err}

	if span != nil {
		span.RecordError(handshakeErr)
		span.SetStatus(observability.StatusError, step)
	}
	if observer := observability.ObserverFromContext(ctx); observer != nil {
		observer.Error(ctx, "Liaobots auth handshake failed",
			observability.String(observability.AttrSessionStep, step),
			observability.Error(err),
		)
	}
	return handshakeErr
}

// endpoint joins the base URL and path.
func (provider *LiaobotsProvider) endpoint(path string) string {
	return provider.baseURL + path
}

// headers are the browser-like headers every request carries.
func (provider *LiaobotsProvider) headers(extra ...utils.HeaderOption) []utils.HeaderOption {
	headers := []utils.HeaderOption{
		{Key: "Authority", Value: "liaobots.com"},
		{Key: "Origin", Value: siteURL},
		{Key: "Referer", Value: siteURL + "/"},
		{Key: "User-Agent", Value: userAgent},
	}
	return append(headers, extra...)
}
