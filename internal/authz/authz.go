// Package authz はロールごとの権限を casbin (RBAC) で判定する。
package authz

import (
	"fmt"
	"strings"

	"github.com/shadinbyte/shopease/internal/domain/model"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
)

// 対象
const (
	ObjCatalog   = "catalog"
	ObjOrders    = "orders"
	ObjCustomers = "customers"
	ObjAnalytics = "analytics"
	ObjAudit     = "audit"
	ObjUsers     = "users"
)

// 操作
const (
	ActRead    = "read"
	ActWrite   = "write"
	ActReadAll = "read_all" //他人の分も見る
	ActManage  = "manage"   //ステータス変更・削除
)

const (
	SubAnonymous = "anonymous"
	SubCustomer  = "customer"
	SubStaff     = "staff"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// staff ⊃ customer ⊃ anonymous
var defaultPolicies = [][]string{
	{SubAnonymous, ObjCatalog, ActRead},

	{SubCustomer, ObjOrders, ActRead},
	{SubCustomer, ObjOrders, ActWrite},
	{SubCustomer, ObjCustomers, ActRead},
	{SubCustomer, ObjCustomers, ActWrite},

	{SubStaff, ObjCatalog, ActWrite},
	{SubStaff, ObjOrders, ActReadAll},
	{SubStaff, ObjOrders, ActManage},
	{SubStaff, ObjCustomers, ActReadAll},
	{SubStaff, ObjCustomers, ActManage},
	{SubStaff, ObjAnalytics, ActRead},
	{SubStaff, ObjAudit, ActRead},
	{SubStaff, ObjUsers, ActManage},
}

var defaultGroupings = [][]string{
	{SubCustomer, SubAnonymous},
	{SubStaff, SubCustomer},
}

type Enforcer struct {
	e *casbin.Enforcer
}

// New は組み込みのモデルとポリシーで Enforcer を作る
func New() (*Enforcer, error) {
	m, err := casbinmodel.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("load rbac model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}

	for _, p := range defaultPolicies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, fmt.Errorf("add policy %v: %w", p, err)
		}
	}
	for _, g := range defaultGroupings {
		if _, err := e.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, fmt.Errorf("add grouping %v: %w", g, err)
		}
	}

	return &Enforcer{e: e}, nil
}

// Subject はロール名を casbin の subject に変換する（空は匿名）
func Subject(role string) string {
	switch model.Role(strings.ToUpper(role)) {
	case model.RoleStaff:
		return SubStaff
	case model.RoleCustomer:
		return SubCustomer
	default:
		return SubAnonymous
	}
}

// Allowed は role が obj に対して act できるか
func (a *Enforcer) Allowed(role string, obj string, act string) (bool, error) {
	return a.e.Enforce(Subject(role), obj, act)
}

// Can は判定エラーを拒否として扱う
func (a *Enforcer) Can(role string, obj string, act string) bool {
	ok, err := a.Allowed(role, obj, act)
	return err == nil && ok
}
