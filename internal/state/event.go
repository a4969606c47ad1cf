package state

// Kind identifies an event in logs.
type Kind string

const (
	KindAuthStart               Kind = "AuthStart"
	KindAuthSuccess             Kind = "AuthSuccess"
	KindAuthError               Kind = "AuthError"
	KindMeStart                 Kind = "MeStart"
	KindMeSuccess               Kind = "MeSuccess"
	KindMeError                 Kind = "MeError"
	KindSignOutStart            Kind = "SignOutStart"
	KindSignOutSuccess          Kind = "SignOutSuccess"
	KindSignOutError            Kind = "SignOutError"
	KindAddProductStart         Kind = "AddProductStart"
	KindAddProductSuccess       Kind = "AddProductSuccess"
	KindAddProductError         Kind = "AddProductError"
	KindFetchAllProductsStart   Kind = "FetchAllProductsStart"
	KindFetchAllProductsSuccess Kind = "FetchAllProductsSuccess"
	KindFetchAllProductsError   Kind = "FetchAllProductsError"
	KindProfilePicUploadSuccess Kind = "ProfilePicUploadSuccess"
	KindRemoveAddProductStatus  Kind = "RemoveAddProductStatus"
)

// Event is a state transition request. The set of events is closed: only the
// types declared in this package implement it, and Reduce handles each one.
type Event interface {
	Kind() Kind
	Family() Family
	event()
}

type (
	AuthStart   struct{}
	AuthSuccess struct{ User User }
	AuthError   struct{ Response *ErrorResponse }

	MeStart   struct{}
	MeSuccess struct{ User User }
	MeError   struct{ Response *ErrorResponse }

	SignOutStart   struct{}
	SignOutSuccess struct{}
	SignOutError   struct{ Response *ErrorResponse }

	AddProductStart   struct{}
	AddProductSuccess struct{ Product Product }
	AddProductError   struct{ Response *ErrorResponse }

	FetchAllProductsStart   struct{}
	FetchAllProductsSuccess struct{ Products []Product }
	FetchAllProductsError   struct{ Response *ErrorResponse }

	ProfilePicUploadSuccess struct{ URL string }
	RemoveAddProductStatus  struct{}
)

func (AuthStart) Kind() Kind               { return KindAuthStart }
func (AuthSuccess) Kind() Kind             { return KindAuthSuccess }
func (AuthError) Kind() Kind               { return KindAuthError }
func (MeStart) Kind() Kind                 { return KindMeStart }
func (MeSuccess) Kind() Kind               { return KindMeSuccess }
func (MeError) Kind() Kind                 { return KindMeError }
func (SignOutStart) Kind() Kind            { return KindSignOutStart }
func (SignOutSuccess) Kind() Kind          { return KindSignOutSuccess }
func (SignOutError) Kind() Kind            { return KindSignOutError }
func (AddProductStart) Kind() Kind         { return KindAddProductStart }
func (AddProductSuccess) Kind() Kind       { return KindAddProductSuccess }
func (AddProductError) Kind() Kind         { return KindAddProductError }
func (FetchAllProductsStart) Kind() Kind   { return KindFetchAllProductsStart }
func (FetchAllProductsSuccess) Kind() Kind { return KindFetchAllProductsSuccess }
func (FetchAllProductsError) Kind() Kind   { return KindFetchAllProductsError }
func (ProfilePicUploadSuccess) Kind() Kind { return KindProfilePicUploadSuccess }
func (RemoveAddProductStatus) Kind() Kind  { return KindRemoveAddProductStatus }

func (AuthStart) Family() Family               { return FamilyAuth }
func (AuthSuccess) Family() Family             { return FamilyAuth }
func (AuthError) Family() Family               { return FamilyAuth }
func (MeStart) Family() Family                 { return FamilyAuth }
func (MeSuccess) Family() Family               { return FamilyAuth }
func (MeError) Family() Family                 { return FamilyAuth }
func (SignOutStart) Family() Family            { return FamilyAuth }
func (SignOutSuccess) Family() Family          { return FamilyAuth }
func (SignOutError) Family() Family            { return FamilyAuth }
func (AddProductStart) Family() Family         { return FamilyAddProduct }
func (AddProductSuccess) Family() Family       { return FamilyAddProduct }
func (AddProductError) Family() Family         { return FamilyAddProduct }
func (FetchAllProductsStart) Family() Family   { return FamilyFetchProducts }
func (FetchAllProductsSuccess) Family() Family { return FamilyFetchProducts }
func (FetchAllProductsError) Family() Family   { return FamilyFetchProducts }
func (ProfilePicUploadSuccess) Family() Family { return FamilyAuth }
func (RemoveAddProductStatus) Family() Family  { return FamilyAddProduct }

func (AuthStart) event()               {}
func (AuthSuccess) event()             {}
func (AuthError) event()               {}
func (MeStart) event()                 {}
func (MeSuccess) event()               {}
func (MeError) event()                 {}
func (SignOutStart) event()            {}
func (SignOutSuccess) event()          {}
func (SignOutError) event()            {}
func (AddProductStart) event()         {}
func (AddProductSuccess) event()       {}
func (AddProductError) event()         {}
func (FetchAllProductsStart) event()   {}
func (FetchAllProductsSuccess) event() {}
func (FetchAllProductsError) event()   {}
func (ProfilePicUploadSuccess) event() {}
func (RemoveAddProductStatus) event()  {}
