package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shadinbyte/shopease/internal/domain/model"
	repo "github.com/shadinbyte/shopease/internal/repository"
)

type CustomerUsecase struct {
	customerRepo repo.CustomerRepository
}

func NewCustomerUsecase(customerRepo repo.CustomerRepository) *CustomerUsecase {
	return &CustomerUsecase{customerRepo: customerRepo}
}

type CustomerOutput struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	FullName   string    `json:"full_name"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	PostalCode string    `json:"postal_code"`
	CreatedAt  time.Time `json:"created_at"`
}

// プロフィール項目。nil は変更しない
type CustomerInput struct {
	Phone      *string
	Address    *string
	City       *string
	PostalCode *string
}

// 自分のプロフィール
func (u *CustomerUsecase) Profile(ctx context.Context, actor Actor) (CustomerOutput, error) {
	c, err := u.own(ctx, actor)
	if err != nil {
		return CustomerOutput{}, err
	}
	return toCustomerOutput(c), nil
}

func (u *CustomerUsecase) UpdateProfile(ctx context.Context, actor Actor, in CustomerInput) (CustomerOutput, error) {
	c, err := u.own(ctx, actor)
	if err != nil {
		return CustomerOutput{}, err
	}
	return u.save(ctx, c, in)
}

// スタッフは全件、それ以外は自分の分だけ
func (u *CustomerUsecase) List(ctx context.Context, actor Actor) ([]CustomerOutput, error) {
	if !actor.Authenticated() {
		return []CustomerOutput{}, errUnauthorized()
	}

	if actor.IsStaff() {
		cs, err := u.customerRepo.List(ctx)
		if err != nil {
			return []CustomerOutput{}, errDB()
		}
		outs := make([]CustomerOutput, 0, len(cs))
		for _, c := range cs {
			outs = append(outs, toCustomerOutput(c))
		}
		return outs, nil
	}

	c, err := u.customerRepo.FindByUserID(ctx, actor.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return []CustomerOutput{}, nil
	}
	if err != nil {
		return []CustomerOutput{}, errDB()
	}
	return []CustomerOutput{toCustomerOutput(c)}, nil
}

// プロフィールが無いアカウント用（1アカウント1件まで）
func (u *CustomerUsecase) Create(ctx context.Context, actor Actor, in CustomerInput) (CustomerOutput, error) {
	if !actor.Authenticated() {
		return CustomerOutput{}, errUnauthorized()
	}

	_, err := u.customerRepo.FindByUserID(ctx, actor.UserID)
	if err == nil {
		return CustomerOutput{}, errConflict("customer profile already exists")
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return CustomerOutput{}, errDB()
	}

	c := model.Customer{UserID: actor.UserID}
	applyCustomerInput(&c, in)
	if err := validateCustomer(c); err != nil {
		return CustomerOutput{}, err
	}

	created, err := u.customerRepo.Create(ctx, c)
	if errors.Is(err, repo.ErrConflict) {
		return CustomerOutput{}, errConflict("customer profile already exists")
	}
	if err != nil {
		return CustomerOutput{}, errDB()
	}

	saved, err := u.customerRepo.FindByID(ctx, created.ID)
	if err != nil {
		return CustomerOutput{}, errDB()
	}
	return toCustomerOutput(saved), nil
}

func (u *CustomerUsecase) Get(ctx context.Context, actor Actor, id int64) (CustomerOutput, error) {
	c, err := u.visible(ctx, actor, id)
	if err != nil {
		return CustomerOutput{}, err
	}
	return toCustomerOutput(c), nil
}

func (u *CustomerUsecase) Update(ctx context.Context, actor Actor, id int64, in CustomerInput) (CustomerOutput, error) {
	c, err := u.visible(ctx, actor, id)
	if err != nil {
		return CustomerOutput{}, err
	}
	return u.save(ctx, c, in)
}

// 注文がある顧客は消せない
func (u *CustomerUsecase) Delete(ctx context.Context, actor Actor, id int64) error {
	if !actor.Authenticated() {
		return errUnauthorized()
	}
	if !actor.IsStaff() {
		return errForbidden()
	}
	if _, err := u.visible(ctx, actor, id); err != nil {
		return err
	}

	has, err := u.customerRepo.HasOrders(ctx, id)
	if err != nil {
		return errDB()
	}
	if has {
		return errConflict("customer has orders")
	}

	if err := u.customerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errNotFound("customer not found")
		}
		return errDB()
	}
	return nil
}

func (u *CustomerUsecase) own(ctx context.Context, actor Actor) (model.Customer, error) {
	if !actor.Authenticated() {
		return model.Customer{}, errUnauthorized()
	}
	c, err := u.customerRepo.FindByUserID(ctx, actor.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Customer{}, errNotFound("customer profile not found")
	}
	if err != nil {
		return model.Customer{}, errDB()
	}
	return c, nil
}

// 他人のプロフィールは存在しない扱い
func (u *CustomerUsecase) visible(ctx context.Context, actor Actor, id int64) (model.Customer, error) {
	if !actor.Authenticated() {
		return model.Customer{}, errUnauthorized()
	}
	if id <= 0 {
		return model.Customer{}, errValidation("invalid customer id")
	}

	c, err := u.customerRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Customer{}, errNotFound("customer not found")
	}
	if err != nil {
		return model.Customer{}, errDB()
	}
	if !actor.IsStaff() && c.UserID != actor.UserID {
		return model.Customer{}, errNotFound("customer not found")
	}
	return c, nil
}

func (u *CustomerUsecase) save(ctx context.Context, c model.Customer, in CustomerInput) (CustomerOutput, error) {
	applyCustomerInput(&c, in)
	if err := validateCustomer(c); err != nil {
		return CustomerOutput{}, err
	}

	if err := u.customerRepo.Update(ctx, c); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CustomerOutput{}, errNotFound("customer not found")
		}
		return CustomerOutput{}, errDB()
	}
	return toCustomerOutput(c), nil
}

func applyCustomerInput(c *model.Customer, in CustomerInput) {
	if in.Phone != nil {
		c.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		c.Address = *in.Address
	}
	if in.City != nil {
		c.City = strings.TrimSpace(*in.City)
	}
	if in.PostalCode != nil {
		c.PostalCode = strings.TrimSpace(*in.PostalCode)
	}
}

func validateCustomer(c model.Customer) error {
	if len(c.Phone) > 20 {
		return errValidation("phone too long")
	}
	if len(c.City) > 100 {
		return errValidation("city too long")
	}
	if len(c.PostalCode) > 20 {
		return errValidation("postal_code too long")
	}
	return nil
}

func toCustomerOutput(c model.Customer) CustomerOutput {
	return CustomerOutput{
		ID:         c.ID,
		UserID:     c.UserID,
		Username:   c.User.Username,
		Email:      c.User.Email,
		FirstName:  c.User.FirstName,
		LastName:   c.User.LastName,
		FullName:   c.FullName(),
		Phone:      c.Phone,
		Address:    c.Address,
		City:       c.City,
		PostalCode: c.PostalCode,
		CreatedAt:  c.CreatedAt,
	}
}
