package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/fekuna/omnipos-sales-service/internal/auth"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var (
	ErrMissingToken    = errors.New("missing bearer token")
	ErrInvalidToken    = errors.New("invalid token")
	ErrInvalidBusiness = errors.New("token carries no valid business")
)

// BusinessHeader lets an admin act on the other business unit.
const BusinessHeader = "x-business"

// Claims are issued by the identity provider; this service only verifies them.
type Claims struct {
	Business string `json:"business"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	jwt.RegisteredClaims
}

type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

func (v *Verifier) Parse(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Authenticate turns an Authorization header value into the request user.
// override is honoured for admins only.
func (v *Verifier) Authenticate(header, override string) (auth.UserContext, error) {
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return auth.UserContext{}, ErrMissingToken
	}
	claims, err := v.Parse(strings.TrimSpace(header[len("Bearer "):]))
	if err != nil {
		return auth.UserContext{}, err
	}

	u := auth.UserContext{
		Business: claims.Business,
		UserID:   claims.Subject,
		Role:     claims.Role,
		FullName: claims.Name,
	}
	if override != "" && u.Role == auth.RoleAdmin {
		u.Business = override
	}
	if !model.Business(u.Business).Valid() {
		return auth.UserContext{}, ErrInvalidBusiness
	}
	return u, nil
}

// UnaryAuthInterceptor rejects calls without a valid bearer token. Methods whose
// full name starts with one of public skip the check.
func (v *Verifier) UnaryAuthInterceptor(public ...string) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		for _, p := range public {
			if strings.HasPrefix(info.FullMethod, p) {
				return handler(ctx, req)
			}
		}

		var header, override string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if val := md.Get("authorization"); len(val) > 0 {
				header = val[0]
			}
			if val := md.Get(BusinessHeader); len(val) > 0 {
				override = val[0]
			}
		}

		u, err := v.Authenticate(header, override)
		if errors.Is(err, ErrInvalidBusiness) {
			return nil, status.Error(codes.PermissionDenied, err.Error())
		}
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		return handler(auth.WithUser(ctx, u), req)
	}
}

// HTTP is the chi middleware counterpart of UnaryAuthInterceptor.
func (v *Verifier) HTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := v.Authenticate(r.Header.Get("Authorization"), r.Header.Get(BusinessHeader))
		if errors.Is(err, ErrInvalidBusiness) {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), u)))
	})
}
