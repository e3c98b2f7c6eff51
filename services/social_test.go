package services

import (
	"testing"

	"github.com/fitquest/fitquest/models"
)

func TestSearchUsersMinimumQuery(t *testing.T) {
	db := newTestDB(t)
	svc := NewSocialService(db)

	searcher := seedUser(t, db, "buscador")
	seedUser(t, db, "bu")

	rows, err := svc.SearchUsers(searcher, "bu")
	if err != nil {
		t.Fatalf("SearchUsers: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows for 2-char query, want 0", len(rows))
	}
}

func TestSearchUsersExcludesSelf(t *testing.T) {
	db := newTestDB(t)
	svc := NewSocialService(db)

	searcher := seedUser(t, db, "atleta1")
	other := seedUser(t, db, "atleta2")

	rows, err := svc.SearchUsers(searcher, "atleta")
	if err != nil {
		t.Fatalf("SearchUsers: %v", err)
	}
	if len(rows) != 1 || rows[0].UserID != other {
		t.Errorf("rows = %+v, want only user %d", rows, other)
	}
}

func TestFriendshipSymmetry(t *testing.T) {
	db := newTestDB(t)
	svc := NewSocialService(db)

	alice := seedUser(t, db, "alice")
	bruno := seedUser(t, db, "bruno")

	if err := svc.RequestFriendship(alice, bruno); err != nil {
		t.Fatalf("RequestFriendship: %v", err)
	}

	pending, err := svc.ListPendingRequests(bruno)
	if err != nil {
		t.Fatalf("ListPendingRequests: %v", err)
	}
	if len(pending) != 1 || pending[0].UserID != alice {
		t.Fatalf("pending = %+v, want one request from alice", pending)
	}

	if err := svc.AcceptFriendship(bruno, pending[0].ID); err != nil {
		t.Fatalf("AcceptFriendship: %v", err)
	}

	// Both sides list exactly one friend: each other.
	aliceFriends, err := svc.FriendsOf(alice)
	if err != nil {
		t.Fatalf("FriendsOf(alice): %v", err)
	}
	brunoFriends, err := svc.FriendsOf(bruno)
	if err != nil {
		t.Fatalf("FriendsOf(bruno): %v", err)
	}
	if len(aliceFriends) != 1 || aliceFriends[0].UserID != bruno {
		t.Errorf("alice's friends = %+v, want only bruno", aliceFriends)
	}
	if len(brunoFriends) != 1 || brunoFriends[0].UserID != alice {
		t.Errorf("bruno's friends = %+v, want only alice", brunoFriends)
	}
}

func TestRequestFriendshipConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := NewSocialService(db)

	alice := seedUser(t, db, "ana")
	bruno := seedUser(t, db, "beto")

	if err := svc.RequestFriendship(alice, alice); err != ErrFriendshipExists {
		t.Fatalf("self request err = %v, want ErrFriendshipExists", err)
	}

	if err := svc.RequestFriendship(alice, bruno); err != nil {
		t.Fatalf("RequestFriendship: %v", err)
	}
	if err := svc.RequestFriendship(alice, bruno); err != ErrFriendshipExists {
		t.Fatalf("duplicate err = %v, want ErrFriendshipExists", err)
	}
	// The reverse direction is the same relationship.
	if err := svc.RequestFriendship(bruno, alice); err != ErrFriendshipExists {
		t.Fatalf("reverse err = %v, want ErrFriendshipExists", err)
	}
}

func TestRejectFriendshipDeletesRequest(t *testing.T) {
	db := newTestDB(t)
	svc := NewSocialService(db)

	alice := seedUser(t, db, "carla")
	bruno := seedUser(t, db, "diego")

	svc.RequestFriendship(alice, bruno)
	pending, _ := svc.ListPendingRequests(bruno)
	if len(pending) != 1 {
		t.Fatalf("pending = %d, want 1", len(pending))
	}

	// Only the addressee can reject.
	if err := svc.RejectFriendship(alice, pending[0].ID); err == nil {
		t.Fatal("requester rejected their own outbound request")
	}
	if err := svc.RejectFriendship(bruno, pending[0].ID); err != nil {
		t.Fatalf("RejectFriendship: %v", err)
	}

	var count int64
	db.Model(&models.Friendship{}).Count(&count)
	if count != 0 {
		t.Errorf("friendship rows = %d after reject, want 0", count)
	}

	// Rejection frees the pair to try again.
	if err := svc.RequestFriendship(bruno, alice); err != nil {
		t.Errorf("re-request after reject: %v", err)
	}
}
