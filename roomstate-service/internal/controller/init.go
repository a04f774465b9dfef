package controller

import (
	"context"
	"strings"

	"github.com/mitchellh/mapstructure"

	pkglog "github.com/weiawesome/wes-io-live/pkg/log"
	"github.com/weiawesome/wes-io-live/roomstate-service/internal/domain"
)

// initialize applies the init bundles in order and emits init carrying the
// resulting settings.
func (c *Controller) initialize(ctx context.Context, ev *domain.Event) {
	if truthy(ev.Payload[domain.KeyHasWebsocket]) {
		c.store.SetConnectionState(domain.StateInit)
	} else {
		c.store.SetConnectionState(domain.StateOffline)
	}

	settings := ev.Map(domain.KeySettings)
	if chat := ev.Map(domain.KeyChatSettings); chat != nil {
		room := c.store.Room()
		if has(settings, domain.KeyRoom) {
			room = str(settings, domain.KeyRoom)
		}
		c.applyChatSettings(ctx, chat, room)
	}
	if settings != nil {
		c.applySettings(settings)
	}
	if bundle := ev.Map(domain.KeyInitializerSettings); bundle != nil {
		c.applyInitializerSettings(ctx, bundle)
	}

	payload, err := settingsPayload(c.store.Settings())
	if err != nil {
		l := pkglog.Ctx(ctx)
		l.Error().Err(err).Msg("failed to encode settings")
		payload = map[string]any{}
	}
	c.notifier.Emit(domain.NewEvent(domain.EventInit, ev.RoomID, payload))
}

// applyChatSettings populates the store from chat and fetches the panel for
// room, the identity this init is about to store.
func (c *Controller) applyChatSettings(ctx context.Context, chat map[string]any, room string) {
	l := pkglog.Ctx(ctx)

	c.store.SetWelcomeMessage(str(chat, domain.KeyWelcomeMessage))
	c.store.SetSubject(str(chat, domain.KeyRoomTitle))
	c.store.SetGender(str(chat, domain.KeyBroadcasterGender))
	c.store.SetSpyPrice(num(chat, domain.KeySpyPrice))
	c.store.SetViewCount(num(chat, domain.KeyNumViewers))
	c.store.SetGroupPrice(num(chat, domain.KeyGroupPrice))
	c.store.SetGroupNumUsersRequired(num(chat, domain.KeyGroupUsersRequired))
	c.store.SetGroupNumUsersWaiting(num(chat, domain.KeyGroupUsersWaiting))
	c.store.SetPrivatePrice(num(chat, domain.KeyPrivatePrice))
	c.store.SetGroupsEnabled(truthy(chat[domain.KeyAllowGroupShows]))
	c.store.SetPrivatesEnabled(truthy(chat[domain.KeyAllowPrivateShows]))

	if err := c.store.SetAppInfo(str(chat, domain.KeyAppsRunning)); err != nil {
		l.Error().Err(err).Msg("malformed app info")
	}

	c.store.SetAPIEndpoints(domain.APIEndpoints{
		GetPanelURL: str(chat, domain.KeyGetPanelURL),
	})

	if _, _, err := c.refreshPanel(ctx, room); err != nil {
		l.Warn().Err(err).Msg("initial panel fetch failed")
	}
}

func (c *Controller) applySettings(settings map[string]any) {
	if has(settings, domain.KeyAllowGroupShows) {
		c.store.SetGroupsEnabled(truthy(settings[domain.KeyAllowGroupShows]))
	}
	if has(settings, domain.KeyAllowPrivateShows) {
		c.store.SetPrivatesEnabled(truthy(settings[domain.KeyAllowPrivateShows]))
	}
	if has(settings, domain.KeyRoom) {
		c.store.SetRoom(str(settings, domain.KeyRoom))
	}

	switch {
	case truthy(settings[domain.KeyConnected]):
		c.store.SetConnectionState(domain.StateConnected)
	case truthy(settings[domain.KeyConnecting]):
		c.store.SetConnectionState(domain.StateConnecting)
	}
}

func (c *Controller) applyInitializerSettings(ctx context.Context, bundle map[string]any) {
	if raw := str(bundle, domain.KeyRoomStatus); raw != "" {
		status := domain.ModelStatus(strings.ToUpper(raw))
		if !status.Valid() {
			l := pkglog.Ctx(ctx)
			l.Debug().Str(pkglog.FieldState, raw).Msg("unrecognized model status")
		}
		c.store.SetModelStatus(status)
	}
	if truthy(bundle[domain.KeyJoined]) {
		c.store.SetConnectionState(domain.StateJoined)
	}
}

// settingsPayload flattens settings into the loose payload shape.
func settingsPayload(s domain.Settings) (map[string]any, error) {
	out := map[string]any{}
	if err := mapstructure.Decode(s, &out); err != nil {
		return nil, err
	}
	return out, nil
}
