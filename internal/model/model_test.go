package model

import "testing"

func TestDefaultFactories(t *testing.T) {
	user := NewUser("3")
	if user.Address != ZeroAddress || user.Handle != "" || user.WithPoh {
		t.Fatalf("unexpected user defaults: %+v", user)
	}

	service := NewService("7")
	if service.Status != ServiceStatusInitialized {
		t.Fatalf("expected Initialized, got %s", service.Status)
	}
	if service.BuyerID != UnsetID || service.PlatformID != UnsetID {
		t.Fatalf("expected unset references, got %+v", service)
	}
	if service.RateTokenID != ZeroAddress || !service.ReferralAmount.IsZero() {
		t.Fatalf("expected zero V2 fields, got %+v", service)
	}
	if service.Cid != "" || service.DescriptionID != "" {
		t.Fatalf("expected empty content pointer, got %+v", service)
	}

	proposal := NewProposal("7-9", "7", "")
	if proposal.Status != ProposalStatusPending || proposal.ServiceID != "7" {
		t.Fatalf("unexpected proposal defaults: %+v", proposal)
	}
	if proposal.RateTokenID != ZeroAddress || proposal.ReferrerID != nil {
		t.Fatalf("expected zero token and no referrer, got %+v", proposal)
	}

	token := NewToken("0x00000000000000000000000000000000000000AB")
	if token.ID != "0x00000000000000000000000000000000000000ab" || token.Allowed {
		t.Fatalf("unexpected token defaults: %+v", token)
	}

	if NewProtocol().ID != ProtocolID {
		t.Fatalf("protocol must use the singleton id")
	}
}

func TestNewEntityRoutesByType(t *testing.T) {
	for _, entityType := range []EntityType{
		EntityUser, EntityUserStat, EntityPlatform, EntityToken, EntityProtocol,
		EntityService, EntityProposal, EntityServiceDescription, EntityProposalDescription,
	} {
		entity, err := NewEntity(entityType, "42")
		if err != nil {
			t.Fatalf("NewEntity(%s) failed: %v", entityType, err)
		}
		if entity.EntityType() != entityType || entity.EntityID() != "42" {
			t.Fatalf("NewEntity(%s) returned %s/%s", entityType, entity.EntityType(), entity.EntityID())
		}
	}

	if _, err := NewEntity("Review", "1"); err == nil {
		t.Fatalf("expected error for unknown entity type")
	}
	if len(EntityModels()) != 9 {
		t.Fatalf("expected every entity type to be migrated")
	}
}
