package policy

import "github.com/sickfits/storefront-api/internal/core/domain"

// ItemMutation covers update and delete: the owner may always act, otherwise
// one of the listed permissions is needed.
func ItemMutation(caller *domain.Identity, item *domain.Item, escalation ...domain.Permission) Decision {
	if caller.Authenticated() && item.OwnerID == caller.UserID {
		return Allow("owner")
	}
	return HasPermission(caller.Permissions(), escalation...)
}

// ItemDeletion allows the owner or ITEMDELETE/ADMIN holders.
func ItemDeletion(caller *domain.Identity, item *domain.Item) Decision {
	return ItemMutation(caller, item, domain.PermissionItemDelete, domain.PermissionAdmin)
}

// ItemUpdate allows the owner or ITEMUPDATE/ADMIN holders.
func ItemUpdate(caller *domain.Identity, item *domain.Item) Decision {
	return ItemMutation(caller, item, domain.PermissionItemUpdate, domain.PermissionAdmin)
}

// CartItemRemoval is strict ownership; no permission overrides it.
func CartItemRemoval(caller *domain.Identity, ci *domain.CartItem) Decision {
	if caller.Authenticated() && ci.UserID == caller.UserID {
		return Allow("owner")
	}
	return Decision{Allowed: false, Reason: "cart item owned by another user", Held: caller.Permissions()}
}

// OrderRead allows the owner or an ADMIN.
func OrderRead(caller *domain.Identity, order *domain.Order) Decision {
	if caller.Authenticated() && order.UserID == caller.UserID {
		return Allow("owner")
	}
	return HasPermission(caller.Permissions(), domain.PermissionAdmin)
}

// OrdersListing allows listing one's own orders; anyone else's needs ADMIN.
func OrdersListing(caller *domain.Identity, userID string) Decision {
	if caller.Authenticated() && (userID == "" || userID == caller.UserID) {
		return Allow("own orders")
	}
	return HasPermission(caller.Permissions(), domain.PermissionAdmin)
}
