package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/antlilja/mips-emulator/insts"
)

var _ = Describe("Decoder", func() {
	var d *insts.Decoder

	BeforeEach(func() {
		d = insts.NewDecoder()
	})

	Describe("R-type", func() {
		It("decodes ADD", func() {
			word := insts.NewRType(8, 9, 10, 0, 0x20)
			inst := d.Decode(word)
			Expect(inst.Family).To(Equal(insts.FamilyR))
			Expect(inst.Op).To(Equal(insts.OpADD))
			Expect(inst.Rs).To(Equal(uint8(8)))
			Expect(inst.Rt).To(Equal(uint8(9)))
			Expect(inst.Rd).To(Equal(uint8(10)))
		})

		It("decodes SLL with a shift amount", func() {
			word := insts.NewRType(0, 9, 10, 4, 0x00)
			inst := d.Decode(word)
			Expect(inst.Op).To(Equal(insts.OpSLL))
			Expect(inst.Shamt).To(Equal(uint8(4)))
		})

		It("distinguishes MUL from MUH via shamt", func() {
			mul := d.Decode(insts.NewRType(1, 2, 3, 2, 0x18))
			muh := d.Decode(insts.NewRType(1, 2, 3, 3, 0x18))
			Expect(mul.Op).To(Equal(insts.OpMUL))
			Expect(muh.Op).To(Equal(insts.OpMUH))
		})

		It("distinguishes SRL from ROTR via the rs LSB", func() {
			srl := d.Decode(insts.NewRType(0, 9, 10, 4, 0x02))
			rotr := d.Decode(insts.NewRType(1, 9, 10, 4, 0x02))
			Expect(srl.Op).To(Equal(insts.OpSRL))
			Expect(rotr.Op).To(Equal(insts.OpROTR))
		})

		It("rejects an unassigned func code", func() {
			word := insts.NewRType(1, 2, 3, 0, 0x3F)
			inst := d.Decode(word)
			Expect(inst.Family).To(Equal(insts.FamilyIllegal))
		})
	})

	Describe("I-type", func() {
		It("decodes ADDIU with a negative immediate", func() {
			word := insts.NewIType(9, 5, 6, 0xFFF0)
			inst := d.Decode(word)
			Expect(inst.Op).To(Equal(insts.OpADDIU))
			Expect(inst.SignExtImm16()).To(Equal(int32(-16)))
		})

		It("decodes LUI as AUI with rs=0", func() {
			word := insts.NewIType(15, 0, 6, 0x1234)
			inst := d.Decode(word)
			Expect(inst.Op).To(Equal(insts.OpLUI))
		})

		It("decodes AUI when rs is non-zero", func() {
			word := insts.NewIType(15, 5, 6, 0x1234)
			inst := d.Decode(word)
			Expect(inst.Op).To(Equal(insts.OpAUI))
		})

		It("decodes LW", func() {
			word := insts.NewIType(0x23, 5, 6, 8)
			inst := d.Decode(word)
			Expect(inst.Op).To(Equal(insts.OpLW))
			Expect(inst.ZeroExtImm16()).To(Equal(uint32(8)))
		})
	})

	Describe("compact branches", func() {
		It("decodes BEQC when rs < rt", func() {
			word := insts.NewPop(0x08, 2, 3, 4)
			inst := d.Decode(word)
			Expect(inst.Op).To(Equal(insts.OpBEQC))
		})

		It("decodes BOVC when rs >= rt", func() {
			word := insts.NewPop(0x08, 5, 3, 4)
			inst := d.Decode(word)
			Expect(inst.Op).To(Equal(insts.OpBOVC))
		})

		It("decodes the legacy BLEZ form when rt is zero", func() {
			word := insts.NewPop(0x16, 5, 0, 4)
			inst := d.Decode(word)
			Expect(inst.Op).To(Equal(insts.OpBLEZ))
		})
	})

	Describe("J-type", func() {
		It("decodes JAL", func() {
			word := insts.NewJType(3, 0x3FF)
			inst := d.Decode(word)
			Expect(inst.Op).To(Equal(insts.OpJAL))
			Expect(inst.Imm26).To(Equal(uint32(0x3FF)))
		})

		It("decodes BALC", func() {
			word := insts.NewCompactJ(true, 0x10)
			inst := d.Decode(word)
			Expect(inst.Op).To(Equal(insts.OpBALC))
		})
	})

	Describe("SPECIAL3", func() {
		It("decodes EXT", func() {
			word := insts.NewSpecial3EXT(4, 5, 8, 7)
			inst := d.Decode(word)
			Expect(inst.Family).To(Equal(insts.FamilySpecial3EXT))
			Expect(inst.Lsb).To(Equal(uint8(8)))
			Expect(inst.Msbd).To(Equal(uint8(7)))
		})

		It("decodes INS", func() {
			word := insts.NewSpecial3INS(4, 5, 8, 15)
			inst := d.Decode(word)
			Expect(inst.Family).To(Equal(insts.FamilySpecial3INS))
			Expect(inst.Lsb).To(Equal(uint8(8)))
			Expect(inst.Msb).To(Equal(uint8(15)))
		})

		It("decodes ALIGN with its bp field", func() {
			word := insts.NewSpecial3BSHFL(0, 5, 6, 0x08|0x2)
			inst := d.Decode(word)
			Expect(inst.Op).To(Equal(insts.OpALIGN))
			Expect(inst.Bp).To(Equal(uint8(2)))
		})

		It("decodes WSBH", func() {
			word := insts.NewSpecial3BSHFL(0, 5, 6, 0x02)
			inst := d.Decode(word)
			Expect(inst.Op).To(Equal(insts.OpWSBH))
		})
	})

	Describe("PC-relative", func() {
		It("decodes ADDIUPC", func() {
			word := insts.NewPCRelType1(4, 0, 0x100)
			inst := d.Decode(word)
			Expect(inst.Family).To(Equal(insts.FamilyPCRelType1))
			Expect(inst.Op).To(Equal(insts.OpADDIUPC))
		})

		It("decodes AUIPC", func() {
			word := insts.NewPCRelType2(4, 0, 0x10)
			inst := d.Decode(word)
			Expect(inst.Family).To(Equal(insts.FamilyPCRelType2))
			Expect(inst.Op).To(Equal(insts.OpAUIPC))
		})
	})
})
