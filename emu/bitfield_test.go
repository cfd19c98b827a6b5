package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/antlilja/mips-emulator/emu"
	"github.com/antlilja/mips-emulator/insts"
)

var _ = Describe("BitfieldUnit", func() {
	Describe("EXT/INS", func() {
		It("extracts a bitfield with EXT", func() {
			// ext $t3, $t0, 4, 7 -> 8-bit field starting at bit 4
			ext := insts.NewSpecial3EXT(emu.RegT0, emu.RegT3, 4, 7)
			e := newTestEmulator([]uint32{ext})
			e.Regs.SetUnsigned(emu.RegT0, 0x1234)

			e.Step()
			Expect(e.Regs.Get(emu.RegT3)).To(Equal(uint32(0x23)))
		})

		It("inserts a bitfield with INS, leaving the rest of rt untouched", func() {
			// ins $t2, $t1, 8, 15 -> replace bits [15:8] of $t2 with $t1's low byte
			ins := insts.NewSpecial3INS(emu.RegT1, emu.RegT2, 8, 15)
			e := newTestEmulator([]uint32{ins})
			e.Regs.SetUnsigned(emu.RegT2, 0xFFFFFFFF)
			e.Regs.SetUnsigned(emu.RegT1, 0xAB)

			e.Step()
			Expect(e.Regs.Get(emu.RegT2)).To(Equal(uint32(0xFFFFABFF)))
		})

		It("round-trips ext(ins(x, y, lsb, size), lsb, size) back to low(y, size)", func() {
			ins := insts.NewSpecial3INS(emu.RegT1, emu.RegT2, 4, 11) // insert $t1 into $t2 at [11:4]
			ext := insts.NewSpecial3EXT(emu.RegT2, emu.RegT3, 4, 7)  // extract the same field back out
			e := newTestEmulator([]uint32{ins, ext})
			e.Regs.SetUnsigned(emu.RegT2, 0)
			e.Regs.SetUnsigned(emu.RegT1, 0xFF)

			e.Step()
			e.Step()

			Expect(e.Regs.Get(emu.RegT3)).To(Equal(uint32(0xFF)))
		})
	})

	Describe("BSHFL", func() {
		It("reverses the bits within each byte on BITSWAP", func() {
			bitswap := insts.NewSpecial3BSHFL(0, emu.RegT1, emu.RegT2, 0x00)
			e := newTestEmulator([]uint32{bitswap})
			e.Regs.SetUnsigned(emu.RegT1, 0x01020304)

			e.Step()
			Expect(e.Regs.Get(emu.RegT2)).To(Equal(uint32(0x8040C020)))
		})

		It("round-trips BITSWAP(BITSWAP(v)) back to v", func() {
			first := insts.NewSpecial3BSHFL(0, emu.RegT1, emu.RegT2, 0x00)
			second := insts.NewSpecial3BSHFL(0, emu.RegT2, emu.RegT3, 0x00)
			e := newTestEmulator([]uint32{first, second})
			e.Regs.SetUnsigned(emu.RegT1, 0xDEADBEEF)

			e.Step()
			e.Step()

			Expect(e.Regs.Get(emu.RegT3)).To(Equal(uint32(0xDEADBEEF)))
		})

		It("swaps byte pairs within each halfword on WSBH", func() {
			wsbh := insts.NewSpecial3BSHFL(0, emu.RegT1, emu.RegT2, 0x02)
			e := newTestEmulator([]uint32{wsbh})
			e.Regs.SetUnsigned(emu.RegT1, 0x12345678)

			e.Step()
			Expect(e.Regs.Get(emu.RegT2)).To(Equal(uint32(0x34127856)))
		})

		It("round-trips WSBH(WSBH(v)) back to v", func() {
			first := insts.NewSpecial3BSHFL(0, emu.RegT1, emu.RegT2, 0x02)
			second := insts.NewSpecial3BSHFL(0, emu.RegT2, emu.RegT3, 0x02)
			e := newTestEmulator([]uint32{first, second})
			e.Regs.SetUnsigned(emu.RegT1, 0xDEADBEEF)

			e.Step()
			e.Step()

			Expect(e.Regs.Get(emu.RegT3)).To(Equal(uint32(0xDEADBEEF)))
		})

		It("sign-extends a byte on SEB", func() {
			seb := insts.NewSpecial3BSHFL(0, emu.RegT1, emu.RegT2, 0x10)
			e := newTestEmulator([]uint32{seb})
			e.Regs.SetUnsigned(emu.RegT1, 0xFF)

			e.Step()
			Expect(e.Regs.Get(emu.RegT2)).To(Equal(uint32(0xFFFFFFFF)))
		})

		It("sign-extends a halfword on SEH", func() {
			seh := insts.NewSpecial3BSHFL(0, emu.RegT1, emu.RegT2, 0x18)
			e := newTestEmulator([]uint32{seh})
			e.Regs.SetUnsigned(emu.RegT1, 0xFFFF)

			e.Step()
			Expect(e.Regs.Get(emu.RegT2)).To(Equal(uint32(0xFFFFFFFF)))
		})

		It("selects a word bp bytes into the rs:rt concatenation on ALIGN", func() {
			align := insts.NewSpecial3BSHFL(emu.RegT0, emu.RegT1, emu.RegT2, 0x08|0x1)
			e := newTestEmulator([]uint32{align})
			e.Regs.SetUnsigned(emu.RegT0, 0x11223344)
			e.Regs.SetUnsigned(emu.RegT1, 0xAABBCCDD)

			e.Step()
			Expect(e.Regs.Get(emu.RegT2)).To(Equal(uint32(0xBBCCDD11)))
		})

		It("passes rs through unchanged when bp == 0", func() {
			align := insts.NewSpecial3BSHFL(emu.RegT0, emu.RegT1, emu.RegT2, 0x08)
			e := newTestEmulator([]uint32{align})
			e.Regs.SetUnsigned(emu.RegT0, 0x11223344)
			e.Regs.SetUnsigned(emu.RegT1, 0xAABBCCDD)

			e.Step()
			Expect(e.Regs.Get(emu.RegT2)).To(Equal(uint32(0x11223344)))
		})
	})
})
