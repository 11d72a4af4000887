package store

import (
	"fmt"
	"testing"

	"pung-bot/backend/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserMemory_Bound(t *testing.T) {
	db, _ := newTestDatabase(t)

	for i := 1; i <= 21; i++ {
		db.AddUserMemory("u1", fmt.Sprintf("fact %d", i))
	}
	db.Wait()

	mem := db.UserMemory("u1")
	require.Len(t, mem, constants.MaxUserMemories)
	assert.Equal(t, "fact 2", mem[0])
	assert.Equal(t, "fact 21", mem[len(mem)-1])
}

func TestServerMemory_Bound(t *testing.T) {
	db, _ := newTestDatabase(t)

	for i := 1; i <= 120; i++ {
		db.AddServerMemory("g1", fmt.Sprintf("fact %d", i))
	}
	db.Wait()

	mem := db.ServerMemory("g1")
	require.Len(t, mem, constants.MaxServerMemories)
	assert.Equal(t, "fact 71", mem[0])
	assert.Equal(t, "fact 120", mem[len(mem)-1])
	assert.Empty(t, db.ServerMemory("g2"))
}

func TestUpdateUserName(t *testing.T) {
	db, s := newTestDatabase(t)
	before := s.saveCount()

	assert.True(t, db.UpdateUserName("g1", "111", "Alice", "Ally"))
	assert.False(t, db.UpdateUserName("g1", "111", "Alice", "Ally"), "unchanged index is not saved")
	assert.True(t, db.UpdateUserName("g1", "111", "Alice", "Queen"))
	assert.False(t, db.UpdateUserName("g1", "", "Nobody", ""))
	db.Wait()

	assert.Equal(t, before+2, s.saveCount())
	assert.Equal(t, []string{"111"}, db.FindUsersByName("g1", "queen"))
	assert.Equal(t, []string{"111"}, db.FindUsersByName("g1", "ally"))
}

func TestFindUsersByName_CaseInsensitiveAndIdempotent(t *testing.T) {
	db, _ := newTestDatabase(t)
	db.UpdateUserName("g1", "111", "Alice", "")
	db.UpdateUserName("g1", "222", "alicia", "")
	db.Wait()

	for _, q := range []string{"alice", "ALICE", "AlIcE", " alice "} {
		assert.Equal(t, []string{"111"}, db.FindUsersByName("g1", q), q)
	}
	assert.Equal(t, db.FindUsersByName("g1", "Alice"), db.FindUsersByName("g1", "Alice"))
}

func TestFindUsersByName_SubstringUnion(t *testing.T) {
	db, _ := newTestDatabase(t)
	db.UpdateUserName("g1", "111", "alice", "ali")
	db.UpdateUserName("g1", "222", "alicia", "")
	db.UpdateUserName("g1", "333", "bob", "")
	db.Wait()

	ids := db.FindUsersByName("g1", "alic")
	assert.ElementsMatch(t, []string{"111", "222"}, ids)

	// stored name contained in the query
	assert.Equal(t, []string{"333"}, db.FindUsersByName("g1", "bobby"))
}

func TestFindUsersByName_Collision(t *testing.T) {
	db, _ := newTestDatabase(t)
	db.UpdateUserName("g1", "111", "sam", "")
	db.UpdateUserName("g1", "222", "sam", "")
	db.Wait()

	assert.Equal(t, []string{"111", "222"}, db.FindUsersByName("g1", "Sam"))
}

func TestFindUsersByName_Empty(t *testing.T) {
	db, _ := newTestDatabase(t)
	db.UpdateUserName("g1", "111", "alice", "")
	db.Wait()

	assert.Empty(t, db.FindUsersByName("g1", ""))
	assert.Empty(t, db.FindUsersByName("g1", "   "))
	assert.Empty(t, db.FindUsersByName("g2", "alice"))
	assert.Empty(t, db.FindUsersByName("g1", "zed"))
}
