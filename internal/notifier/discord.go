package notifier

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/gdg-garage/meibo/internal/models"
	"go.uber.org/zap"
)

type Notifier interface {
	NotifyRegistration(rec models.Record, updated bool) error
}

// messageSender is the part of *discordgo.Session the notifier needs.
type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type DiscordNotifier struct {
	session   messageSender
	channelID string
	logger    *zap.Logger
}

func NewDiscordNotifier(session *discordgo.Session, channelID string, logger *zap.Logger) *DiscordNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := &DiscordNotifier{channelID: channelID, logger: logger}
	if session != nil {
		n.session = session
	}
	return n
}

func (n *DiscordNotifier) NotifyRegistration(rec models.Record, updated bool) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	_, err := n.session.ChannelMessageSend(n.channelID, registrationMessage(rec, updated))
	if err != nil {
		n.logger.Error("Failed to send discord message", zap.Error(err), zap.String("record_id", rec.ID))
		return err
	}
	return nil
}

// registrationMessage carries no contact or health details; the channel is
// only told that someone registered.
func registrationMessage(rec models.Record, updated bool) string {
	status := "new registration"
	if updated {
		status = "registration updated"
	}

	nationality := rec.Nationality
	if rec.NationalityOther != "" {
		nationality = rec.NationalityOther
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 **%s**\n**Name:** %s", status, rec.FullName())
	if id := rec.AccountID(); id != "" {
		fmt.Fprintf(&b, " (%s)", id)
	}
	if nationality != "" {
		fmt.Fprintf(&b, "\n**Nationality:** %s", nationality)
	}
	if len(rec.Jobs) > 0 {
		fmt.Fprintf(&b, "\n**Jobs:** %s", strings.Join(rec.Jobs, ", "))
	}
	if rec.ModifiedBy != "" {
		fmt.Fprintf(&b, "\n**By:** %s", rec.ModifiedBy)
	}
	return b.String()
}
