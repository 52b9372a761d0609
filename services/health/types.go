package health

type Service interface {
	Echo()
}

type Impl struct {
	subscriberCount func() int
}
