package models

type Subscription string

const (
	SubscriptionStarter  Subscription = "starter"
	SubscriptionPro      Subscription = "pro"
	SubscriptionBusiness Subscription = "business"
)

func (s Subscription) IsValid() bool {
	switch s {
	case SubscriptionStarter, SubscriptionPro, SubscriptionBusiness:
		return true
	default:
		return false
	}
}
