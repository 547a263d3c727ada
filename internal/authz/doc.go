// Package authz decides who may do what with the yamdb resources.
//
// Decisions come from a Casbin RBAC model embedded in the binary. A request
// is (role, resource, action, ownership), where ownership is "own" when the
// actor authored the target and "other" otherwise. Roles form the chain
//
//	anonymous < user < moderator < admin
//
// and each role inherits every permission of the roles below it. Superusers
// are evaluated as admin regardless of their stored role.
//
// A denial for an anonymous actor is reported as ErrUnauthorized so the
// transport can ask for credentials; any other denial is ErrForbidden.
package authz
