package service

import (
	"errors"
	"fmt"

	"github.com/touka-aoi/boss-director/application/request"
	"github.com/touka-aoi/boss-director/utils"
)

// SimpleValidator は最低限の入力検証を提供するデフォルト実装。
type SimpleValidator struct{}

func (SimpleValidator) SpawnBoss(req request.SpawnBoss) error {
	if req.Command.BossID.IsEmpty() {
		return errors.New("boss id is required")
	}
	return nil
}

func (SimpleValidator) IncomingHit(req request.IncomingHit) error {
	cmd := req.Command
	if cmd.BossID.IsEmpty() {
		return errors.New("boss id is required")
	}
	if err := utils.CheckDamage(cmd.Damage); err != nil {
		return err
	}
	return nil
}

func (SimpleValidator) WeaponHit(req request.WeaponHit) error {
	cmd := req.Command
	if cmd.BossID.IsEmpty() {
		return errors.New("boss id is required")
	}
	// 負のダメージは台帳側で無視されるので、ここでは有限かだけ見る
	if !utils.Finite(cmd.Damage) {
		return fmt.Errorf("%w: damage %v", utils.ErrNotFinite, cmd.Damage)
	}
	return nil
}

func (SimpleValidator) CombatantDamaged(req request.CombatantDamaged) error {
	cmd := req.Command
	if cmd.CombatantID.IsEmpty() {
		return errors.New("combatant id is required")
	}
	if err := utils.CheckDamage(cmd.Damage); err != nil {
		return err
	}
	return utils.CheckRoster(cmd.Roster)
}

func (SimpleValidator) CombatantDealt(req request.CombatantDealt) error {
	cmd := req.Command
	if cmd.CombatantID.IsEmpty() {
		return errors.New("combatant id is required")
	}
	if err := utils.CheckDamage(cmd.Damage); err != nil {
		return err
	}
	return nil
}

func (SimpleValidator) CombatantDied(req request.CombatantDied) error {
	if req.Command.CombatantID.IsEmpty() {
		return errors.New("combatant id is required")
	}
	return nil
}

func (SimpleValidator) SelectTarget(req request.SelectTarget) error {
	if req.Command.BossID.IsEmpty() {
		return errors.New("boss id is required")
	}
	if !utils.FiniteVec(req.Command.Position) {
		return fmt.Errorf("%w: position %+v", utils.ErrNotFinite, req.Command.Position)
	}
	return utils.CheckRoster(req.Command.Roster)
}

var _ Validator = SimpleValidator{}
