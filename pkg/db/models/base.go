package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// assignID gives rows a UUID before insert; sqlite has no gen_random_uuid().
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(*gorm.DB) error              { assignID(&u.ID); return nil }
func (w *Warehouse) BeforeCreate(*gorm.DB) error         { assignID(&w.ID); return nil }
func (v *Vendor) BeforeCreate(*gorm.DB) error            { assignID(&v.ID); return nil }
func (l *VendorWarehouse) BeforeCreate(*gorm.DB) error   { assignID(&l.ID); return nil }
func (p *Product) BeforeCreate(*gorm.DB) error           { assignID(&p.ID); return nil }
func (i *InventoryItem) BeforeCreate(*gorm.DB) error     { assignID(&i.ID); return nil }
func (c *Client) BeforeCreate(*gorm.DB) error            { assignID(&c.ID); return nil }
func (a *Agent) BeforeCreate(*gorm.DB) error             { assignID(&a.ID); return nil }
func (o *DeliveryOrder) BeforeCreate(*gorm.DB) error     { assignID(&o.ID); return nil }
func (s *StockTransfer) BeforeCreate(*gorm.DB) error     { assignID(&s.ID); return nil }
func (l *StockTransferLine) BeforeCreate(*gorm.DB) error { assignID(&l.ID); return nil }
func (r *Remittance) BeforeCreate(*gorm.DB) error        { assignID(&r.ID); return nil }
func (r *RemittanceOrder) BeforeCreate(*gorm.DB) error   { assignID(&r.ID); return nil }
func (p *RemittancePayment) BeforeCreate(*gorm.DB) error { assignID(&p.ID); return nil }
func (e *Expense) BeforeCreate(*gorm.DB) error           { assignID(&e.ID); return nil }
