package identity

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ciptypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
	"github.com/juju/clock"
	"github.com/juju/retry"

	"github.com/juanDango/amaris-prueba-backend/internal/core/domain"
)

type cognitoAPI interface {
	SignUp(ctx context.Context, params *cip.SignUpInput, optFns ...func(*cip.Options)) (*cip.SignUpOutput, error)
	ConfirmSignUp(ctx context.Context, params *cip.ConfirmSignUpInput, optFns ...func(*cip.Options)) (*cip.ConfirmSignUpOutput, error)
	InitiateAuth(ctx context.Context, params *cip.InitiateAuthInput, optFns ...func(*cip.Options)) (*cip.InitiateAuthOutput, error)
}

// CognitoProvider implements Provider against a Cognito user pool.
// Transient provider failures are retried a bounded number of times with
// backoff before surfacing domain.ErrUpstream; business rejections (bad
// password, unknown user, duplicate email) are never retried.
type CognitoProvider struct {
	api          cognitoAPI
	clientID     string
	clientSecret string
	clock        clock.Clock
}

func NewCognitoProvider(api cognitoAPI, clientID, clientSecret string, clk clock.Clock) *CognitoProvider {
	return &CognitoProvider{
		api:          api,
		clientID:     clientID,
		clientSecret: clientSecret,
		clock:        clk,
	}
}

// secretHash computes the SECRET_HASH Cognito requires when the app client
// has a secret: base64(HMAC-SHA256(secret, username+clientID)).
func (p *CognitoProvider) secretHash(username string) string {
	mac := hmac.New(sha256.New, []byte(p.clientSecret))
	mac.Write([]byte(username + p.clientID))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func (p *CognitoProvider) SignUp(ctx context.Context, email, password string) (string, error) {
	var out *cip.SignUpOutput
	err := p.call(ctx, func() error {
		var err error
		out, err = p.api.SignUp(ctx, &cip.SignUpInput{
			ClientId:   aws.String(p.clientID),
			Username:   aws.String(email),
			Password:   aws.String(password),
			SecretHash: aws.String(p.secretHash(email)),
		})
		return err
	})
	if err != nil {
		var exists *ciptypes.UsernameExistsException
		if errors.As(err, &exists) {
			return "", fmt.Errorf("%w: %s", domain.ErrEmailTaken, email)
		}
		return "", err
	}
	return aws.ToString(out.UserSub), nil
}

func (p *CognitoProvider) Confirm(ctx context.Context, email, code string) error {
	return p.call(ctx, func() error {
		_, err := p.api.ConfirmSignUp(ctx, &cip.ConfirmSignUpInput{
			ClientId:         aws.String(p.clientID),
			Username:         aws.String(email),
			ConfirmationCode: aws.String(code),
			SecretHash:       aws.String(p.secretHash(email)),
		})
		return err
	})
}

func (p *CognitoProvider) Login(ctx context.Context, email, password string) (*Tokens, error) {
	var out *cip.InitiateAuthOutput
	err := p.call(ctx, func() error {
		var err error
		out, err = p.api.InitiateAuth(ctx, &cip.InitiateAuthInput{
			ClientId: aws.String(p.clientID),
			AuthFlow: ciptypes.AuthFlowTypeUserPasswordAuth,
			AuthParameters: map[string]string{
				"USERNAME":    email,
				"PASSWORD":    password,
				"SECRET_HASH": p.secretHash(email),
			},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	if out.AuthenticationResult == nil {
		return nil, fmt.Errorf("%w: no authentication result", domain.ErrProviderRejected)
	}
	return &Tokens{
		AccessToken:  aws.ToString(out.AuthenticationResult.AccessToken),
		RefreshToken: aws.ToString(out.AuthenticationResult.RefreshToken),
		TokenType:    "Bearer",
	}, nil
}

// call runs one provider operation under the retry policy.
func (p *CognitoProvider) call(ctx context.Context, f func() error) error {
	err := retry.Call(retry.CallArgs{
		Func: f,
		IsFatalError: func(err error) bool {
			return !isTransient(err)
		},
		Attempts:    3,
		Delay:       500 * time.Millisecond,
		BackoffFunc: retry.DoubleDelay,
		Clock:       p.clock,
		Stop:        ctx.Done(),
	})
	if err == nil {
		return nil
	}
	if retry.IsAttemptsExceeded(err) || retry.IsRetryStopped(err) {
		return fmt.Errorf("%w: %v", domain.ErrUpstream, retry.LastError(err))
	}
	if isTransient(err) {
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	// Keep the provider error in the chain so callers can match the
	// concrete rejection (e.g. UsernameExistsException).
	return fmt.Errorf("%w: %w", domain.ErrProviderRejected, err)
}

// isTransient reports whether the provider error is worth retrying: server
// faults and transport errors are, caller faults are not.
func isTransient(err error) bool {
	var ae smithy.APIError
	if errors.As(err, &ae) {
		return ae.ErrorFault() == smithy.FaultServer
	}
	return true
}
