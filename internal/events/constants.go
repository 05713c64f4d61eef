package events

import "github.com/roobiinpandey/qahwatapp/internal/rollups"

// EventType identifies what happened in the storefront or app.
type EventType string

const (
	EventTypePageView               EventType = "page_view"
	EventTypeProductView            EventType = "product_view"
	EventTypeProductSearch          EventType = "product_search"
	EventTypeAddToCart              EventType = "add_to_cart"
	EventTypeRemoveFromCart         EventType = "remove_from_cart"
	EventTypeCheckoutStarted        EventType = "checkout_started"
	EventTypeCheckoutCompleted      EventType = "checkout_completed"
	EventTypeOrderPlaced            EventType = "order_placed"
	EventTypePurchase               EventType = "purchase"
	EventTypeUserRegistration       EventType = "user_registration"
	EventTypeUserLogin              EventType = "user_login"
	EventTypeUserLogout             EventType = "user_logout"
	EventTypeReviewSubmitted        EventType = "review_submitted"
	EventTypeWishlistAdd            EventType = "wishlist_add"
	EventTypeWishlistRemove         EventType = "wishlist_remove"
	EventTypeCategoryBrowse         EventType = "category_browse"
	EventTypeAppLaunch              EventType = "app_launch"
	EventTypeAppBackground          EventType = "app_background"
	EventTypePushNotificationOpened EventType = "push_notification_opened"
	EventTypeEmailOpened            EventType = "email_opened"
	EventTypeCouponUsed             EventType = "coupon_used"
	EventTypeSocialShare            EventType = "social_share"
	EventTypeSupportContact         EventType = "support_contact"
	EventTypeProfileUpdated         EventType = "profile_updated"
	EventTypeSearchImpression       EventType = "search_impression"
	EventTypeSearchClick            EventType = "search_click"
)

var validEventTypes = map[EventType]bool{
	EventTypePageView:               true,
	EventTypeProductView:            true,
	EventTypeProductSearch:          true,
	EventTypeAddToCart:              true,
	EventTypeRemoveFromCart:         true,
	EventTypeCheckoutStarted:        true,
	EventTypeCheckoutCompleted:      true,
	EventTypeOrderPlaced:            true,
	EventTypePurchase:               true,
	EventTypeUserRegistration:       true,
	EventTypeUserLogin:              true,
	EventTypeUserLogout:             true,
	EventTypeReviewSubmitted:        true,
	EventTypeWishlistAdd:            true,
	EventTypeWishlistRemove:         true,
	EventTypeCategoryBrowse:         true,
	EventTypeAppLaunch:              true,
	EventTypeAppBackground:          true,
	EventTypePushNotificationOpened: true,
	EventTypeEmailOpened:            true,
	EventTypeCouponUsed:             true,
	EventTypeSocialShare:            true,
	EventTypeSupportContact:         true,
	EventTypeProfileUpdated:         true,
	EventTypeSearchImpression:       true,
	EventTypeSearchClick:            true,
}

// Valid reports whether the event type is one the tracker accepts.
func (t EventType) Valid() bool {
	return validEventTypes[t]
}

// rollupKinds maps product-relevant event types onto rollup counters.
// Events outside this map never touch the rollup tables.
var rollupKinds = map[EventType]rollups.Kind{
	EventTypeProductView:      rollups.KindView,
	EventTypeAddToCart:        rollups.KindAddToCart,
	EventTypePurchase:         rollups.KindPurchase,
	EventTypeReviewSubmitted:  rollups.KindReview,
	EventTypeWishlistAdd:      rollups.KindWishlistAdd,
	EventTypeSocialShare:      rollups.KindShare,
	EventTypeSearchImpression: rollups.KindSearchImpression,
	EventTypeSearchClick:      rollups.KindSearchClick,
}

// RollupKind returns the rollup counter kind for product-relevant event
// types. The second return is false for events that do not feed rollups.
func (t EventType) RollupKind() (rollups.Kind, bool) {
	kind, ok := rollupKinds[t]
	return kind, ok
}

// FunnelStages lists the purchase funnel in order. Funnel reports count
// these from raw events rather than rollups so the steps stay consistent
// with each other within one query.
var FunnelStages = []EventType{
	EventTypeProductView,
	EventTypeAddToCart,
	EventTypeCheckoutStarted,
	EventTypeCheckoutCompleted,
	EventTypeOrderPlaced,
}
