package screens

import (
	"cmp"
	"context"
	"strings"

	"github.com/Temutjin2k/safebike-web/internal/domain/models"
	"github.com/Temutjin2k/safebike-web/internal/domain/types"
	"github.com/Temutjin2k/safebike-web/pkg/logger"
	"github.com/Temutjin2k/safebike-web/pkg/validator"
	"golang.org/x/sync/errgroup"
)

var (
	PackageSortSafelist = []string{"-createdAt", "createdAt", "status", "-status", "recipientName", "-recipientName", "estimatedValue", "-estimatedValue"}
	UserSortSafelist    = []string{"lastName", "-lastName", "email", "-email", "role", "-role"}
)

type PackagePage struct {
	Items    []models.DeliveryRequest
	Metadata models.Metadata
	Filters  models.Filters
	Status   types.PackageStatus
}

type UserPage struct {
	Items    []models.User
	Metadata models.Metadata
	Filters  models.Filters
	Role     types.Role
}

type Admin struct {
	bind Binder
	log  logger.Logger
}

func NewAdmin(bind Binder, log logger.Logger) *Admin {
	return &Admin{
		bind: bind,
		log:  log,
	}
}

// Dashboard loads packages and users side by side and summarizes them.
func (a *Admin) Dashboard(ctx context.Context, sess TokenSource) (State[models.AdminStats], error) {
	gw := a.bind(sess)
	return readOnce(ctx, func(ctx context.Context) (models.AdminStats, error) {
		var (
			packages []models.DeliveryRequest
			users    []models.User
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			packages, err = gw.ListAllPackages(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			users, err = gw.ListUsers(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return models.AdminStats{}, err
		}
		return AdminStats(packages, users), nil
	})
}

// Packages lists every package, optionally narrowed to one status, one page at a time.
func (a *Admin) Packages(ctx context.Context, sess TokenSource, filters models.Filters, status types.PackageStatus) (State[PackagePage], error) {
	if fields, err := validate(filters.Validate); err != nil {
		return State[PackagePage]{FieldErrors: fields, Err: err, Data: PackagePage{Filters: filters, Status: status}}, nil
	}

	gw := a.bind(sess)
	return readOnce(ctx, func(ctx context.Context) (PackagePage, error) {
		list, err := gw.ListAllPackages(ctx)
		if err != nil {
			return PackagePage{}, err
		}
		if status != "" {
			list = filterSlice(list, func(p models.DeliveryRequest) bool { return p.Status == status })
		}
		items, meta := models.Paginate(list, filters, comparePackages)
		return PackagePage{Items: items, Metadata: meta, Filters: filters, Status: status}, nil
	})
}

// Users lists the accounts, optionally narrowed to one role.
func (a *Admin) Users(ctx context.Context, sess TokenSource, filters models.Filters, role types.Role) (State[UserPage], error) {
	if fields, err := validate(filters.Validate); err != nil {
		return State[UserPage]{FieldErrors: fields, Err: err, Data: UserPage{Filters: filters, Role: role}}, nil
	}

	gw := a.bind(sess)
	return readOnce(ctx, func(ctx context.Context) (UserPage, error) {
		list, err := gw.ListUsers(ctx)
		if err != nil {
			return UserPage{}, err
		}
		if role != types.RoleAnonymous {
			list = filterSlice(list, func(u models.User) bool { return u.RoleName() == role })
		}
		items, meta := models.Paginate(list, filters, compareUsers)
		return UserPage{Items: items, Metadata: meta, Filters: filters, Role: role}, nil
	})
}

// ParseStatusFilter accepts an empty value (all statuses) or one known status.
func ParseStatusFilter(v *validator.Validator, raw string) types.PackageStatus {
	status := types.PackageStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if status == "" {
		return ""
	}
	v.Check(validator.PermittedValue(status, types.AllStatuses...), "status", "invalid status")
	return status
}

// AdminStats counts packages per status and the number of users.
func AdminStats(packages []models.DeliveryRequest, users []models.User) models.AdminStats {
	stats := models.AdminStats{
		Packages: len(packages),
		Users:    len(users),
		ByStatus: make(map[types.PackageStatus]int, len(types.AllStatuses)),
	}
	for _, s := range types.AllStatuses {
		stats.ByStatus[s] = 0
	}
	for _, p := range packages {
		stats.ByStatus[p.Status]++
	}
	return stats
}

func comparePackages(a, b models.DeliveryRequest, key string) int {
	switch key {
	case "status":
		return cmp.Compare(a.Status, b.Status)
	case "recipientName":
		return cmp.Compare(strings.ToLower(a.RecipientName), strings.ToLower(b.RecipientName))
	case "estimatedValue":
		return cmp.Compare(a.EstimatedValue, b.EstimatedValue)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func compareUsers(a, b models.User, key string) int {
	switch key {
	case "email":
		return cmp.Compare(strings.ToLower(a.Email), strings.ToLower(b.Email))
	case "role":
		return cmp.Compare(a.RoleName(), b.RoleName())
	default:
		return cmp.Compare(strings.ToLower(a.LastName+" "+a.FirstName), strings.ToLower(b.LastName+" "+b.FirstName))
	}
}

func filterSlice[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
