package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/shooter/internal/game/geom"
	"github.com/cory-johannsen/shooter/internal/game/inventory"
	"github.com/cory-johannsen/shooter/internal/game/npc"
)

// ErrRecordNotFound is returned when a record lookup yields no results.
var ErrRecordNotFound = errors.New("record not found")

// RecordRepository persists the weapon, enemy and rarity configuration records.
type RecordRepository struct {
	db *pgxpool.Pool
}

// NewRecordRepository creates a RecordRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewRecordRepository(db *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{db: db}
}

// execer is satisfied by both *pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const weaponColumns = `id, name, class, ammo_type, magazine_capacity, starting_ammo,
		damage, headshot_damage, auto_fire_interval, automatic,
		reload_section, reload_time, equip_time, clip_bone, bone_to_hide,
		mesh, icon, ammo_icon, fire_sound, pickup_sound, equip_sound, muzzle_flash`

const enemyColumns = `id, name, mesh, speed, capsule_half_height, capsule_radius,
		health, base_damage, head_bone, stun_chance, stun_duration,
		hit_react_min, hit_react_max, attack_wait_time, death_time, health_bar_time,
		aggro_radius, combat_radius, melee_reach, melee_radius,
		patrol_point, patrol_point_2, impact_particles, impact_sound,
		hit_montage, attack_montage, death_montage`

const rarityColumns = `id, stars, damage_multiplier, glow_color, icon_background`

// UpsertWeapon inserts or replaces the weapon row keyed by w.ID.
//
// Precondition: w must be non-nil.
func (r *RecordRepository) UpsertWeapon(ctx context.Context, w *inventory.WeaponDef) error {
	return upsertWeapon(ctx, r.db, w)
}

func upsertWeapon(ctx context.Context, db execer, w *inventory.WeaponDef) error {
	_, err := db.Exec(ctx, `
		INSERT INTO weapons (`+weaponColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
		        $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, class = EXCLUDED.class, ammo_type = EXCLUDED.ammo_type,
			magazine_capacity = EXCLUDED.magazine_capacity, starting_ammo = EXCLUDED.starting_ammo,
			damage = EXCLUDED.damage, headshot_damage = EXCLUDED.headshot_damage,
			auto_fire_interval = EXCLUDED.auto_fire_interval, automatic = EXCLUDED.automatic,
			reload_section = EXCLUDED.reload_section, reload_time = EXCLUDED.reload_time,
			equip_time = EXCLUDED.equip_time, clip_bone = EXCLUDED.clip_bone,
			bone_to_hide = EXCLUDED.bone_to_hide, mesh = EXCLUDED.mesh, icon = EXCLUDED.icon,
			ammo_icon = EXCLUDED.ammo_icon, fire_sound = EXCLUDED.fire_sound,
			pickup_sound = EXCLUDED.pickup_sound, equip_sound = EXCLUDED.equip_sound,
			muzzle_flash = EXCLUDED.muzzle_flash, updated_at = NOW()`,
		w.ID, w.Name, string(w.Class), string(w.AmmoType), w.MagazineCapacity, w.StartingAmmo,
		w.Damage, w.HeadshotDamage, w.AutoFireInterval, w.Automatic,
		w.ReloadSection, w.ReloadTime, w.EquipTime, w.ClipBone, w.BoneToHide,
		w.Mesh, w.Icon, w.AmmoIcon, w.FireSound, w.PickupSound, w.EquipSound, w.MuzzleFlash,
	)
	if err != nil {
		return fmt.Errorf("upserting weapon %q: %w", w.ID, err)
	}
	return nil
}

// UpsertEnemy inserts or replaces the enemy template row keyed by t.ID.
//
// Precondition: t must be non-nil.
func (r *RecordRepository) UpsertEnemy(ctx context.Context, t *npc.Template) error {
	return upsertEnemy(ctx, r.db, t)
}

func upsertEnemy(ctx context.Context, db execer, t *npc.Template) error {
	_, err := db.Exec(ctx, `
		INSERT INTO enemies (`+enemyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, mesh = EXCLUDED.mesh, speed = EXCLUDED.speed,
			capsule_half_height = EXCLUDED.capsule_half_height, capsule_radius = EXCLUDED.capsule_radius,
			health = EXCLUDED.health, base_damage = EXCLUDED.base_damage, head_bone = EXCLUDED.head_bone,
			stun_chance = EXCLUDED.stun_chance, stun_duration = EXCLUDED.stun_duration,
			hit_react_min = EXCLUDED.hit_react_min, hit_react_max = EXCLUDED.hit_react_max,
			attack_wait_time = EXCLUDED.attack_wait_time, death_time = EXCLUDED.death_time,
			health_bar_time = EXCLUDED.health_bar_time, aggro_radius = EXCLUDED.aggro_radius,
			combat_radius = EXCLUDED.combat_radius, melee_reach = EXCLUDED.melee_reach,
			melee_radius = EXCLUDED.melee_radius, patrol_point = EXCLUDED.patrol_point,
			patrol_point_2 = EXCLUDED.patrol_point_2, impact_particles = EXCLUDED.impact_particles,
			impact_sound = EXCLUDED.impact_sound, hit_montage = EXCLUDED.hit_montage,
			attack_montage = EXCLUDED.attack_montage, death_montage = EXCLUDED.death_montage,
			updated_at = NOW()`,
		t.ID, t.Name, t.Mesh, t.Speed, t.CapsuleHalfHeight, t.CapsuleRadius,
		t.Health, t.BaseDamage, t.HeadBone, t.StunChance, t.StunDuration,
		t.HitReactMin, t.HitReactMax, t.AttackWaitTime, t.DeathTime, t.HealthBarTime,
		t.AggroRadius, t.CombatRadius, t.MeleeReach, t.MeleeRadius,
		t.PatrolPoint, t.PatrolPoint2, t.ImpactParticles, t.Sounds.Impact,
		t.Montages.Hit, t.Montages.Attack, t.Montages.Death,
	)
	if err != nil {
		return fmt.Errorf("upserting enemy %q: %w", t.ID, err)
	}
	return nil
}

// UpsertRarity inserts or replaces the rarity row keyed by d.ID.
//
// Precondition: d must be non-nil.
func (r *RecordRepository) UpsertRarity(ctx context.Context, d *inventory.RarityDef) error {
	return upsertRarity(ctx, r.db, d)
}

func upsertRarity(ctx context.Context, db execer, d *inventory.RarityDef) error {
	_, err := db.Exec(ctx, `
		INSERT INTO rarities (`+rarityColumns+`)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			stars = EXCLUDED.stars, damage_multiplier = EXCLUDED.damage_multiplier,
			glow_color = EXCLUDED.glow_color, icon_background = EXCLUDED.icon_background,
			updated_at = NOW()`,
		string(d.ID), d.Stars, d.DamageMultiplier, d.GlowColor, d.IconBackground,
	)
	if err != nil {
		return fmt.Errorf("upserting rarity %q: %w", d.ID, err)
	}
	return nil
}

// Seed writes every given record in a single transaction.
//
// Postcondition: Either all records are stored or none are.
func (r *RecordRepository) Seed(ctx context.Context, weapons []*inventory.WeaponDef, enemies []*npc.Template, rarities []*inventory.RarityDef) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		for _, d := range rarities {
			if err := upsertRarity(ctx, tx, d); err != nil {
				return err
			}
		}
		for _, w := range weapons {
			if err := upsertWeapon(ctx, tx, w); err != nil {
				return err
			}
		}
		for _, t := range enemies {
			if err := upsertEnemy(ctx, tx, t); err != nil {
				return err
			}
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWeapon(row rowScanner) (*inventory.WeaponDef, error) {
	var w inventory.WeaponDef
	var class, ammo string
	if err := row.Scan(
		&w.ID, &w.Name, &class, &ammo, &w.MagazineCapacity, &w.StartingAmmo,
		&w.Damage, &w.HeadshotDamage, &w.AutoFireInterval, &w.Automatic,
		&w.ReloadSection, &w.ReloadTime, &w.EquipTime, &w.ClipBone, &w.BoneToHide,
		&w.Mesh, &w.Icon, &w.AmmoIcon, &w.FireSound, &w.PickupSound, &w.EquipSound, &w.MuzzleFlash,
	); err != nil {
		return nil, err
	}
	w.Class = inventory.Class(class)
	w.AmmoType = inventory.AmmoType(ammo)
	return &w, nil
}

func scanEnemy(row rowScanner) (*npc.Template, error) {
	var t npc.Template
	var p1, p2 geom.Vec3
	if err := row.Scan(
		&t.ID, &t.Name, &t.Mesh, &t.Speed, &t.CapsuleHalfHeight, &t.CapsuleRadius,
		&t.Health, &t.BaseDamage, &t.HeadBone, &t.StunChance, &t.StunDuration,
		&t.HitReactMin, &t.HitReactMax, &t.AttackWaitTime, &t.DeathTime, &t.HealthBarTime,
		&t.AggroRadius, &t.CombatRadius, &t.MeleeReach, &t.MeleeRadius,
		&p1, &p2, &t.ImpactParticles, &t.Sounds.Impact,
		&t.Montages.Hit, &t.Montages.Attack, &t.Montages.Death,
	); err != nil {
		return nil, err
	}
	t.PatrolPoint, t.PatrolPoint2 = p1, p2
	return &t, nil
}

func scanRarity(row rowScanner) (*inventory.RarityDef, error) {
	var d inventory.RarityDef
	var id string
	if err := row.Scan(&id, &d.Stars, &d.DamageMultiplier, &d.GlowColor, &d.IconBackground); err != nil {
		return nil, err
	}
	d.ID = inventory.Rarity(id)
	return &d, nil
}

// Weapon returns the weapon definition with the given ID.
//
// Postcondition: Returns ErrRecordNotFound when no row matches.
func (r *RecordRepository) Weapon(ctx context.Context, id string) (*inventory.WeaponDef, error) {
	w, err := scanWeapon(r.db.QueryRow(ctx, `SELECT `+weaponColumns+` FROM weapons WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("querying weapon %q: %w", id, err)
	}
	return w, nil
}

// Enemy returns the enemy template with the given ID.
//
// Postcondition: Returns ErrRecordNotFound when no row matches.
func (r *RecordRepository) Enemy(ctx context.Context, id string) (*npc.Template, error) {
	t, err := scanEnemy(r.db.QueryRow(ctx, `SELECT `+enemyColumns+` FROM enemies WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("querying enemy %q: %w", id, err)
	}
	return t, nil
}

// Weapons returns every weapon definition ordered by ID.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *RecordRepository) Weapons(ctx context.Context) ([]*inventory.WeaponDef, error) {
	rows, err := r.db.Query(ctx, `SELECT `+weaponColumns+` FROM weapons ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing weapons: %w", err)
	}
	defer rows.Close()

	out := make([]*inventory.WeaponDef, 0)
	for rows.Next() {
		w, err := scanWeapon(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning weapon row: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// Enemies returns every enemy template ordered by ID.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *RecordRepository) Enemies(ctx context.Context) ([]*npc.Template, error) {
	rows, err := r.db.Query(ctx, `SELECT `+enemyColumns+` FROM enemies ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing enemies: %w", err)
	}
	defer rows.Close()

	out := make([]*npc.Template, 0)
	for rows.Next() {
		t, err := scanEnemy(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning enemy row: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Rarities returns the rarity table ordered by star count.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *RecordRepository) Rarities(ctx context.Context) ([]*inventory.RarityDef, error) {
	rows, err := r.db.Query(ctx, `SELECT `+rarityColumns+` FROM rarities ORDER BY stars ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing rarities: %w", err)
	}
	defer rows.Close()

	out := make([]*inventory.RarityDef, 0)
	for rows.Next() {
		d, err := scanRarity(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning rarity row: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
