package authz

import "context"

type identityContextKey struct{}
type orgContextKey struct{}
type entitlementContextKey struct{}

// ContextWithIdentity stores the resolved identity in context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the identity from context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}

// ContextWithOrg stores the resolved organization scope in context.
func ContextWithOrg(ctx context.Context, scope OrgContext) context.Context {
	return context.WithValue(ctx, orgContextKey{}, scope)
}

// OrgFromContext extracts the organization scope from context.
func OrgFromContext(ctx context.Context) (OrgContext, bool) {
	scope, ok := ctx.Value(orgContextKey{}).(OrgContext)
	return scope, ok
}

// ContextWithEntitlement stores the billing entitlement in context.
func ContextWithEntitlement(ctx context.Context, e Entitlement) context.Context {
	return context.WithValue(ctx, entitlementContextKey{}, e)
}

// EntitlementFromContext extracts the billing entitlement from context.
func EntitlementFromContext(ctx context.Context) (Entitlement, bool) {
	e, ok := ctx.Value(entitlementContextKey{}).(Entitlement)
	return e, ok
}
