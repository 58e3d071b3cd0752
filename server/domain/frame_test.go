package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListReply(t *testing.T) {
	assert.Equal(t, "ROOM_LIST:", ListReply(ReplyRoomList, nil).Text)
	assert.Equal(t, "ROOM_LIST:Lobby,dev", ListReply(ReplyRoomList, []string{"Lobby", "dev"}).Text)
}

func TestListReply_StaysWithinTextFrame(t *testing.T) {
	name := strings.Repeat("𝒜", 120) + ".txt"
	var items []string
	for i := 0; i < 200; i++ {
		items = append(items, name)
	}
	assert.False(t, ListFits(ReplyFileList, items))

	f := ListReply(ReplyFileList, items)
	assert.LessOrEqual(t, len(f.Text), MaxTextSize)
	listed := strings.Split(strings.TrimPrefix(f.Text, ReplyFileList+":"), ",")
	assert.Equal(t, (MaxTextSize-len(ReplyFileList))/(len(name)+1), len(listed))
	for _, item := range listed {
		assert.Equal(t, name, item, "items are never cut in half")
	}
	assert.True(t, ListFits(ReplyFileList, listed))
}
